package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Upvote holds the structure for the report_upvotes collection in mongo,
// one row per incident case
type Upvote struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	IncidentCase string             `json:"incidentCase" bson:"incidentCase"`
	Count        int64              `json:"count" bson:"count"`
}
