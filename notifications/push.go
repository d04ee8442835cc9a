package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/databases"
)

// Push channel states. Permission is owned by the browser; this service
// only books the local confirmation flag next to the last permission the
// client reported.
const (
	PushStateUnsupported = "unsupported"
	PushStateDefault     = "default"
	PushStateDenied      = "denied"
	PushStateGranted     = "granted-but-not-confirmed-locally"
	PushStateSubscribed  = "subscribed"
)

// ErrPermissionNotGranted is returned when a subscribe is attempted without
// browser permission. Denial itself is a valid terminal state, not an error.
var ErrPermissionNotGranted = errors.New("notification permission not granted")

// PushService tracks push opt-in per browser
type PushService struct {
	DB    databases.PushSubscriberDatabase
	Clock clockwork.Clock
}

// NewPushService creates the push subscription service
func NewPushService(db databases.PushSubscriberDatabase, clock clockwork.Clock) *PushService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PushService{DB: db, Clock: clock}
}

// Subscribe records the local confirmation for a browser that has granted
// permission. Subscribed requires both permission granted and the flag.
func (p *PushService) Subscribe(ctx context.Context, browserID, permission string) error {
	if permission != "granted" {
		return ErrPermissionNotGranted
	}
	err := p.DB.UpsertOne(ctx,
		bson.M{"browserId": browserID},
		bson.M{"$set": bson.M{
			"browserId":    browserID,
			"permission":   permission,
			"confirmed":    true,
			"subscribedAt": p.Clock.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to store push subscription: %w", err)
	}
	return nil
}

// Unsubscribe clears only the local confirmation flag; the browser
// permission itself is outside this system's control
func (p *PushService) Unsubscribe(ctx context.Context, browserID string) error {
	err := p.DB.UpsertOne(ctx,
		bson.M{"browserId": browserID},
		bson.M{"$set": bson.M{"confirmed": false}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear push subscription: %w", err)
	}
	return nil
}

// Sync reconciles the stored state with the live permission the client
// reports on initialization. A row that says subscribed while the live
// permission is no longer granted means the user revoked it in browser
// settings, so the subscription is force-cleared.
func (p *PushService) Sync(ctx context.Context, browserID, livePermission string) (string, error) {
	subscriber, err := p.DB.FindOne(ctx, bson.M{"browserId": browserID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return stateFor(livePermission, false), nil
		}
		return "", fmt.Errorf("failed to find push subscriber: %w", err)
	}

	if subscriber.Confirmed && livePermission != "granted" {
		zap.S().Infow("push permission revoked, unsubscribing",
			"permission", livePermission,
		)
		if err := p.Unsubscribe(ctx, browserID); err != nil {
			return "", err
		}
		return stateFor(livePermission, false), nil
	}

	if livePermission != subscriber.Permission {
		err := p.DB.UpsertOne(ctx,
			bson.M{"browserId": browserID},
			bson.M{"$set": bson.M{"permission": livePermission}},
		)
		if err != nil {
			return "", fmt.Errorf("failed to update push permission: %w", err)
		}
	}
	return stateFor(livePermission, subscriber.Confirmed), nil
}

// Status derives the channel state from the stored row without reconciling
func (p *PushService) Status(ctx context.Context, browserID string) (string, error) {
	subscriber, err := p.DB.FindOne(ctx, bson.M{"browserId": browserID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return PushStateDefault, nil
		}
		return "", fmt.Errorf("failed to find push subscriber: %w", err)
	}
	return stateFor(subscriber.Permission, subscriber.Confirmed), nil
}

func stateFor(permission string, confirmed bool) string {
	switch permission {
	case "granted":
		if confirmed {
			return PushStateSubscribed
		}
		return PushStateGranted
	case "denied":
		return PushStateDenied
	case "unsupported":
		return PushStateUnsupported
	default:
		return PushStateDefault
	}
}
