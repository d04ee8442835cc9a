package databases

// go generate: mockery --name UserReportDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexgaoth/campus-crime-api/models"
)

const userReportName = "user_reports"

// UserReportDatabase contains the methods to use with the user_reports database
type UserReportDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.UserReport, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.UserReport, error)
	InsertOne(ctx context.Context, report models.UserReport, opts ...*options.InsertOneOptions) InsertOneResultHelper
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type userReportDatabase struct {
	db DatabaseHelper
}

// NewUserReportDatabase initializes a new instance of user report database with the provided db connection
func NewUserReportDatabase(db DatabaseHelper) UserReportDatabase {
	return &userReportDatabase{
		db: db,
	}
}

func (c *userReportDatabase) FindOne(ctx context.Context, filter interface{}) (*models.UserReport, error) {
	report := &models.UserReport{}
	err := c.db.Collection(userReportName).FindOne(ctx, filter).Decode(&report)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *userReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.UserReport, error) {
	var reports []models.UserReport
	err := c.db.Collection(userReportName).Find(ctx, filter, opts...).Decode(&reports)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *userReportDatabase) InsertOne(ctx context.Context, report models.UserReport, opts ...*options.InsertOneOptions) InsertOneResultHelper {
	return c.db.Collection(userReportName).InsertOne(ctx, report, opts...)
}

func (c *userReportDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(userReportName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *userReportDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(userReportName).DeleteOne(ctx, filter, opts...)
}
