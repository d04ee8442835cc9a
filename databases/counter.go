package databases

// go generate: mockery --name CounterDatabase

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alexgaoth/campus-crime-api/models"
)

const counterName = "counters"

// CounterDatabase hands out sequential case numbers for user reports
type CounterDatabase interface {
	NextIncidentCase(ctx context.Context, year int) (string, error)
}

type counterDatabase struct {
	db DatabaseHelper
}

// NewCounterDatabase initializes a new instance of counter database with the provided db connection
func NewCounterDatabase(db DatabaseHelper) CounterDatabase {
	return &counterDatabase{
		db: db,
	}
}

// NextIncidentCase atomically increments the per-year sequence and returns
// the next USER-<year>-<seq> case identifier
func (c *counterDatabase) NextIncidentCase(ctx context.Context, year int) (string, error) {
	upsert := true
	after := options.After
	res := c.db.Collection(counterName).FindOneAndUpdate(ctx,
		bson.M{"_id": fmt.Sprintf("user_reports_%d", year)},
		bson.M{"$inc": bson.M{"seq": 1}},
		&options.FindOneAndUpdateOptions{Upsert: &upsert, ReturnDocument: &after},
	)

	counter := &models.Counter{}
	if err := res.Decode(counter); err != nil {
		return "", err
	}
	return fmt.Sprintf("USER-%d-%03d", year, counter.Seq), nil
}
