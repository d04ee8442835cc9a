package databases

// go generate: mockery --name SmsSubscriberDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexgaoth/campus-crime-api/models"
)

const smsSubscriberName = "sms_subscribers"

// SmsSubscriberDatabase contains the methods to use with the sms_subscribers database
type SmsSubscriberDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.SmsSubscriber, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.SmsSubscriber, error)
	UpsertOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type smsSubscriberDatabase struct {
	db DatabaseHelper
}

// NewSmsSubscriberDatabase initializes a new instance of sms subscriber database with the provided db connection
func NewSmsSubscriberDatabase(db DatabaseHelper) SmsSubscriberDatabase {
	return &smsSubscriberDatabase{
		db: db,
	}
}

func (c *smsSubscriberDatabase) FindOne(ctx context.Context, filter interface{}) (*models.SmsSubscriber, error) {
	subscriber := &models.SmsSubscriber{}
	err := c.db.Collection(smsSubscriberName).FindOne(ctx, filter).Decode(&subscriber)
	if err != nil {
		return nil, err
	}
	return subscriber, nil
}

func (c *smsSubscriberDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.SmsSubscriber, error) {
	var subscribers []models.SmsSubscriber
	err := c.db.Collection(smsSubscriberName).Find(ctx, filter, opts...).Decode(&subscribers)
	if err != nil {
		return nil, err
	}
	return subscribers, nil
}

func (c *smsSubscriberDatabase) UpsertOne(ctx context.Context, filter interface{}, update interface{}) error {
	upsert := true
	_, err := c.db.Collection(smsSubscriberName).UpdateOne(ctx, filter, update, &options.UpdateOptions{Upsert: &upsert})
	return err
}

func (c *smsSubscriberDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(smsSubscriberName).DeleteOne(ctx, filter, opts...)
}
