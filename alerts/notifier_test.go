package alerts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	mocksdb "github.com/alexgaoth/campus-crime-api/databases/mocks"
	"github.com/alexgaoth/campus-crime-api/models"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []string
	failFor string
}

func (r *recordingSender) Send(ctx context.Context, phoneNumber, message string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if phoneNumber == r.failFor {
		return "", errors.New("carrier rejected")
	}
	r.sent = append(r.sent, phoneNumber+": "+message)
	return "SM123", nil
}

func TestNotifier_NotifyNewIncidents(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return([]models.SmsSubscriber{
		{PhoneNumber: "+15551112222", Verified: true},
		{PhoneNumber: "+15553334444", Verified: true},
	}, nil)

	sender := &recordingSender{}
	n := NewNotifier(db, sender, "https://campuscrimealerts.com")

	n.NotifyNewIncidents(context.Background(), []models.Incident{
		{IncidentCase: "2510070084", Category: "Theft", Location: "Main Library"},
	})

	assert.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0], "[2510070084]")
	assert.Contains(t, sender.sent[0], "Theft")
	assert.Contains(t, sender.sent[0], "https://campuscrimealerts.com")
}

func TestNotifier_FailedSendDoesNotAbortBatch(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return([]models.SmsSubscriber{
		{PhoneNumber: "+15550000000", Verified: true},
		{PhoneNumber: "+15551112222", Verified: true},
	}, nil)

	sender := &recordingSender{failFor: "+15550000000"}
	n := NewNotifier(db, sender, "https://campuscrimealerts.com")

	n.NotifyNewIncidents(context.Background(), []models.Incident{
		{IncidentCase: "2510070084", Category: "Theft", Location: "Main Library"},
	})

	assert.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "+15551112222")
}

func TestNotifier_NoIncidentsNoQuery(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	n := NewNotifier(db, &recordingSender{}, "https://campuscrimealerts.com")

	n.NotifyNewIncidents(context.Background(), nil)
	db.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}
