package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alexgaoth/campus-crime-api/api"
	"github.com/alexgaoth/campus-crime-api/config"
	"github.com/alexgaoth/campus-crime-api/databases"
)

// Upvote handles upvote counts per incident case
type Upvote struct {
	DB databases.UpvoteDatabase
}

// GetUpvotesHandler returns the current count for a case, zero when no row
// exists yet
func (u Upvote) GetUpvotesHandler(w http.ResponseWriter, r *http.Request) {
	incidentCase := mux.Vars(r)["incident_case"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var count int64
	upvote, err := u.DB.FindOne(ctx, bson.M{"incidentCase": incidentCase})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("failed to get upvote count", http.StatusInternalServerError, w, err)
		return
	}
	if upvote != nil {
		count = upvote.Count
	}

	writeJSON(w, map[string]interface{}{
		"incidentCase": incidentCase,
		"count":        count,
	})
}

// AddUpvoteHandler increments the count for a case, creating the row on
// first vote
func (u Upvote) AddUpvoteHandler(w http.ResponseWriter, r *http.Request) {
	incidentCase := mux.Vars(r)["incident_case"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := u.DB.Increment(ctx, incidentCase); err != nil {
		config.ErrorStatus("failed to add upvote", http.StatusInternalServerError, w, err)
		return
	}
	writeSuccess(w)
}
