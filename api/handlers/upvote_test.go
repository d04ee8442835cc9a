package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alexgaoth/campus-crime-api/api/handlers"
	mocksdb "github.com/alexgaoth/campus-crime-api/databases/mocks"
	"github.com/alexgaoth/campus-crime-api/models"
)

func TestUpvote_GetUpvotesHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/upvotes/2510070084", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"incident_case": "2510070084"})

	db := &mocksdb.UpvoteDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.Upvote{IncidentCase: "2510070084", Count: 7}, nil)

	u := handlers.Upvote{DB: db}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.GetUpvotesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"count":7,"incidentCase":"2510070084"}`, rr.Body.String())
}

func TestUpvote_GetUpvotesHandlerNoRowYet(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/upvotes/2510070084", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"incident_case": "2510070084"})

	db := &mocksdb.UpvoteDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	u := handlers.Upvote{DB: db}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.GetUpvotesHandler).ServeHTTP(rr, req)

	// no row means zero votes, not an error
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"count":0,"incidentCase":"2510070084"}`, rr.Body.String())
}

func TestUpvote_AddUpvoteHandler(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/upvotes/2510070084", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"incident_case": "2510070084"})

	db := &mocksdb.UpvoteDatabase{}
	db.On("Increment", mock.Anything, "2510070084").Return(nil)

	u := handlers.Upvote{DB: db}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.AddUpvoteHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	db.AssertExpectations(t)
}
