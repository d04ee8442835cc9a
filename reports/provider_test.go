package reports_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

const feedBody = `{
	"reports": [
		{
			"filename": "october.json",
			"incidents": [
				{"incident_case": "2510070084", "date_reported": "2025-10-07", "date_occurred": "2025-10-06", "summary": "Theft of a bicycle"},
				{"incident_case": "2510010012", "date_reported": "2025-10-01", "date_occurred": "2025-10-01", "summary": "Vandalism"}
			]
		}
	]
}`

func TestProvider_LoadAndIncidents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	p := reports.NewProvider(server.URL)
	assert.NoError(t, p.Load(context.Background()))

	incidents, err := p.Incidents()
	assert.NoError(t, err)
	assert.Len(t, incidents, 2)
	assert.Equal(t, "2510070084", incidents[0].IncidentCase)
	assert.Equal(t, "10/07/2025", incidents[0].DateReported)

	cases := p.Cases()
	assert.True(t, cases["2510070084"])
	assert.True(t, cases["2510010012"])
}

func TestProvider_IncidentsBeforeLoad(t *testing.T) {
	p := reports.NewProvider("http://feed.invalid/reports.json")

	_, err := p.Incidents()
	assert.ErrorIs(t, err, reports.ErrNotLoaded)
}

func TestProvider_FailedLoadKeepsPreviousCollection(t *testing.T) {
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	p := reports.NewProvider(server.URL)
	assert.NoError(t, p.Load(context.Background()))

	failing.Store(true)
	assert.Error(t, p.Load(context.Background()))

	// the previous collection survives a failed refresh
	incidents, err := p.Incidents()
	assert.NoError(t, err)
	assert.Len(t, incidents, 2)
}

func TestProvider_SupersededLoadIsDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			close(firstArrived)
			<-release
			w.Write([]byte(`{"reports": [{"incidents": [
				{"incident_case": "OLD", "date_reported": "2025-10-01", "date_occurred": "2025-10-01"}
			]}]}`))
			return
		}
		w.Write([]byte(`{"reports": [{"incidents": [
			{"incident_case": "NEW", "date_reported": "2025-10-07", "date_occurred": "2025-10-07"}
		]}]}`))
	}))
	defer server.Close()

	p := reports.NewProvider(server.URL)

	// first load stalls inside its fetch while a second one runs to completion
	done := make(chan error, 1)
	go func() { done <- p.Load(context.Background()) }()
	<-firstArrived

	assert.NoError(t, p.Load(context.Background()))

	close(release)
	assert.NoError(t, <-done)

	// the stale result must never clobber the fresher collection
	incidents, err := p.Incidents()
	assert.NoError(t, err)
	assert.Len(t, incidents, 1)
	assert.Equal(t, "NEW", incidents[0].IncidentCase)
}

func TestProvider_MalformedFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	p := reports.NewProvider(server.URL)
	assert.Error(t, p.Load(context.Background()))

	_, err := p.Incidents()
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	p := reports.NewStaticProvider([]models.Incident{{IncidentCase: "A"}})
	incidents, err := p.Incidents()
	assert.NoError(t, err)
	assert.Len(t, incidents, 1)
}
