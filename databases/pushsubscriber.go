package databases

// go generate: mockery --name PushSubscriberDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexgaoth/campus-crime-api/models"
)

const pushSubscriberName = "push_subscribers"

// PushSubscriberDatabase contains the methods to use with the push_subscribers database
type PushSubscriberDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.PushSubscriber, error)
	UpsertOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type pushSubscriberDatabase struct {
	db DatabaseHelper
}

// NewPushSubscriberDatabase initializes a new instance of push subscriber database with the provided db connection
func NewPushSubscriberDatabase(db DatabaseHelper) PushSubscriberDatabase {
	return &pushSubscriberDatabase{
		db: db,
	}
}

func (c *pushSubscriberDatabase) FindOne(ctx context.Context, filter interface{}) (*models.PushSubscriber, error) {
	subscriber := &models.PushSubscriber{}
	err := c.db.Collection(pushSubscriberName).FindOne(ctx, filter).Decode(&subscriber)
	if err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (c *pushSubscriberDatabase) UpsertOne(ctx context.Context, filter interface{}, update interface{}) error {
	upsert := true
	_, err := c.db.Collection(pushSubscriberName).UpdateOne(ctx, filter, update, &options.UpdateOptions{Upsert: &upsert})
	return err
}

func (c *pushSubscriberDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(pushSubscriberName).DeleteOne(ctx, filter, opts...)
}
