package alerts

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/databases"
	"github.com/alexgaoth/campus-crime-api/models"
)

// Notifier fans out SMS alerts for newly published incidents to every
// verified subscriber
type Notifier struct {
	SubDB   databases.SmsSubscriberDatabase
	Sender  SMSSender
	SiteURL string
}

// NewNotifier creates a notifier over the given subscriber store and sender
func NewNotifier(subDB databases.SmsSubscriberDatabase, sender SMSSender, siteURL string) *Notifier {
	return &Notifier{SubDB: subDB, Sender: sender, SiteURL: siteURL}
}

// NotifyNewIncidents sends one alert per incident to every verified
// subscriber. A failed send is logged and skipped so one bad number never
// aborts the batch. The incident case number doubles as the alert tag so a
// repeated alert for the same incident can be de-duplicated downstream.
func (n *Notifier) NotifyNewIncidents(ctx context.Context, incidents []models.Incident) {
	if len(incidents) == 0 {
		return
	}
	if n.Sender == nil {
		zap.S().Warnw("sms sender not configured, skipping alert fan-out", "incidents", len(incidents))
		return
	}

	subscribers, err := n.SubDB.Find(ctx, bson.M{"verified": true})
	if err != nil {
		zap.S().Errorw("failed to fetch verified subscribers", "error", err)
		return
	}
	if len(subscribers) == 0 {
		return
	}

	sent, failed := 0, 0
	for _, inc := range incidents {
		message := fmt.Sprintf("[%s] New %s report at %s. Details: %s", inc.IncidentCase, inc.Category, inc.Location, n.SiteURL)
		for _, sub := range subscribers {
			if _, err := n.Sender.Send(ctx, sub.PhoneNumber, message); err != nil {
				zap.S().Errorw("failed to send incident alert",
					"incidentCase", inc.IncidentCase,
					"error", err,
				)
				failed++
				continue
			}
			sent++
		}
	}
	zap.S().Infow("incident alert fan-out complete",
		"incidents", len(incidents),
		"sent", sent,
		"failed", failed,
	)
}
