package databases

// go generate: mockery --name UpvoteDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexgaoth/campus-crime-api/models"
)

const upvoteName = "report_upvotes"

// UpvoteDatabase contains the methods to use with the report_upvotes database
type UpvoteDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Upvote, error)
	Increment(ctx context.Context, incidentCase string) error
}

type upvoteDatabase struct {
	db DatabaseHelper
}

// NewUpvoteDatabase initializes a new instance of upvote database with the provided db connection
func NewUpvoteDatabase(db DatabaseHelper) UpvoteDatabase {
	return &upvoteDatabase{
		db: db,
	}
}

func (c *upvoteDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Upvote, error) {
	upvote := &models.Upvote{}
	err := c.db.Collection(upvoteName).FindOne(ctx, filter).Decode(&upvote)
	if err != nil {
		return nil, err
	}
	return upvote, nil
}

func (c *upvoteDatabase) Increment(ctx context.Context, incidentCase string) error {
	upsert := true
	_, err := c.db.Collection(upvoteName).UpdateOne(ctx,
		bson.M{"incidentCase": incidentCase},
		bson.M{"$inc": bson.M{"count": 1}},
		&options.UpdateOptions{Upsert: &upsert},
	)
	return err
}
