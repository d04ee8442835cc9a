package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/alexgaoth/campus-crime-api/alerts"
	mocksdb "github.com/alexgaoth/campus-crime-api/databases/mocks"
	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
)

func TestNewIncidents(t *testing.T) {
	incidents := []models.Incident{
		{IncidentCase: "A"},
		{IncidentCase: "B"},
		{IncidentCase: "C"},
	}

	fresh := newIncidents(map[string]bool{"A": true, "B": true}, incidents)
	assert.Len(t, fresh, 1)
	assert.Equal(t, "C", fresh[0].IncidentCase)

	// an empty before-set is a first load, which never alerts
	assert.Nil(t, newIncidents(nil, incidents))
	assert.Nil(t, newIncidents(map[string]bool{}, incidents))

	// nothing new
	assert.Empty(t, newIncidents(map[string]bool{"A": true, "B": true, "C": true}, incidents))
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(ctx context.Context, phoneNumber, message string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, message)
	return "SM123", nil
}

func TestScheduler_RefreshFeedAlertsOnNewIncidents(t *testing.T) {
	var second atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if second.Load() {
			w.Write([]byte(`{"reports": [{"incidents": [
				{"incident_case": "A", "date_reported": "2025-10-06", "date_occurred": "2025-10-06"},
				{"incident_case": "B", "category": "Theft", "location": "Main Library", "date_reported": "2025-10-07", "date_occurred": "2025-10-07"}
			]}]}`))
			return
		}
		w.Write([]byte(`{"reports": [{"incidents": [
			{"incident_case": "A", "date_reported": "2025-10-06", "date_occurred": "2025-10-06"}
		]}]}`))
	}))
	defer server.Close()

	provider := reports.NewProvider(server.URL)
	assert.NoError(t, provider.Load(context.Background()))

	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return([]models.SmsSubscriber{
		{PhoneNumber: "+15551234567", Verified: true},
	}, nil)

	sender := &recordingSender{}
	notifier := alerts.NewNotifier(db, sender, "https://campuscrimealerts.com")

	s := NewScheduler(provider, notifier, nil, "")
	second.Store(true)
	s.refreshFeed()

	assert.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "[B]")
}

func TestScheduler_RefreshFeedFailureKeepsCollection(t *testing.T) {
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"reports": [{"incidents": [
			{"incident_case": "A", "date_reported": "2025-10-06", "date_occurred": "2025-10-06"}
		]}]}`))
	}))
	defer server.Close()

	provider := reports.NewProvider(server.URL)
	assert.NoError(t, provider.Load(context.Background()))

	db := &mocksdb.SmsSubscriberDatabase{}
	sender := &recordingSender{}
	notifier := alerts.NewNotifier(db, sender, "https://campuscrimealerts.com")

	s := NewScheduler(provider, notifier, nil, "")
	failing.Store(true)
	s.refreshFeed()

	incidents, err := provider.Incidents()
	assert.NoError(t, err)
	assert.Len(t, incidents, 1)
	assert.Empty(t, sender.sent)
	db.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}
