package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserReportStatusPending is the status every new submission starts in.
// Pending reports are held for manual review and never auto-published.
const UserReportStatusPending = "pending"

// UserReportDraft is the request body for a user-authored incident report
type UserReportDraft struct {
	Location     string `json:"location"`
	Category     string `json:"category"`
	DateOccurred string `json:"dateOccurred"`
	TimeOccurred string `json:"timeOccurred,omitempty"`
	Summary      string `json:"summary"`
	Contact      string `json:"contact,omitempty"`
}

// UserReport holds the structure for the user_reports collection in mongo
type UserReport struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	IncidentCase string             `json:"incidentCase" bson:"incidentCase"`
	Location     string             `json:"location" bson:"location"`
	Category     string             `json:"category" bson:"category"`
	DateOccurred string             `json:"dateOccurred" bson:"dateOccurred"`
	TimeOccurred string             `json:"timeOccurred,omitempty" bson:"timeOccurred,omitempty"`
	Summary      string             `json:"summary" bson:"summary"`
	Contact      string             `json:"contact,omitempty" bson:"contact,omitempty"`
	Status       string             `json:"status" bson:"status"`
	Processed    bool               `json:"processed" bson:"processed"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
