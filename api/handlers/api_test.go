package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func setupTestApp() {
	a.Clock = clockwork.NewRealClock()
	a.Provider = reports.NewStaticProvider([]models.Incident{
		{IncidentCase: "2510070084", Category: "Theft", Location: "Main Library", DateOccurred: "10/07/2025", DateReported: "10/07/2025", Summary: "Bicycle stolen"},
	})
	a.Router = a.New()
}

func TestUnknownRoute(t *testing.T) {
	setupTestApp()
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	setupTestApp()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestIncidentsRoute(t *testing.T) {
	setupTestApp()
	req, _ := http.NewRequest("GET", "/api/v1/incidents", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "2510070084") {
		t.Errorf("Expected the incident case in the response. Got '%s'", response.Body.String())
	}
}

func TestIncidentByCaseRoute(t *testing.T) {
	setupTestApp()
	req, _ := http.NewRequest("GET", "/api/v1/incidents/2510070084", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)
}

func TestViewRoutesRegistered(t *testing.T) {
	setupTestApp()
	for _, path := range []string{
		"/api/v1/incidents/top-recent",
		"/api/v1/incidents/search",
		"/api/v1/incidents/categories",
		"/api/v1/incidents/locations",
		"/api/v1/incidents/hourly",
		"/api/v1/incidents/directory",
		"/api/v1/incidents/location-ranking",
	} {
		req, _ := http.NewRequest("GET", path, nil)
		response := executeRequest(req)
		checkResponseCode(t, http.StatusOK, response.Code)
	}
}

func TestSubmissionRouteRejectsGet(t *testing.T) {
	setupTestApp()
	req, _ := http.NewRequest("GET", "/api/v1/reports", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusMethodNotAllowed, response.Code)
}
