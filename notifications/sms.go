package notifications

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/alexgaoth/campus-crime-api/alerts"
	"github.com/alexgaoth/campus-crime-api/databases"
)

// SMS channel states
const (
	SmsStateUnverified  = "unverified"
	SmsStatePendingCode = "pending-code"
	SmsStateVerified    = "verified"
)

// codeValidity is how long an issued verification code can be redeemed.
// Enforced against stored timestamps, never client timers.
const codeValidity = 10 * time.Minute

// resendCooldown is the minimum gap between two code sends to one number
const resendCooldown = 60 * time.Second

// Verification failure taxonomy. Expired and invalid are deliberately
// distinct so the UI can tell the user which one happened.
var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number format: must be E.164 (+1XXXXXXXXXX)")
	ErrNumberNotFound     = errors.New("phone number not found: request a new code")
	ErrCodeExpired        = errors.New("verification code has expired: request a new one")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrResendThrottled    = errors.New("please wait at least 60 seconds before requesting a new code")
)

// SmsService drives the SMS subscription handshake: issue a code, verify
// it, resend under a cooldown, unsubscribe. All time arithmetic goes
// through the injected clock so tests can freeze it.
type SmsService struct {
	DB     databases.SmsSubscriberDatabase
	Sender alerts.SMSSender
	Clock  clockwork.Clock
}

// NewSmsService creates the SMS subscription service
func NewSmsService(db databases.SmsSubscriberDatabase, sender alerts.SMSSender, clock clockwork.Clock) *SmsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SmsService{DB: db, Sender: sender, Clock: clock}
}

// SendVerificationCode issues a fresh 6-digit code for the number, replacing
// any prior code, and dispatches it by SMS. The subscriber row is written
// before the send so a delivery failure can be retried with resend.
func (s *SmsService) SendVerificationCode(ctx context.Context, phoneNumber string) error {
	if !alerts.PhonePattern.MatchString(phoneNumber) {
		return ErrInvalidPhoneNumber
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	now := s.Clock.Now()

	err := s.DB.UpsertOne(ctx,
		bson.M{"phoneNumber": phoneNumber},
		bson.M{"$set": bson.M{
			"phoneNumber":      phoneNumber,
			"verificationCode": code,
			"codeExpiresAt":    now.Add(codeValidity),
			"codeSentAt":       now,
			"verified":         false,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if s.Sender == nil {
		zap.S().Warnw("sms sender not configured, code stored but not delivered")
		return nil
	}
	message := fmt.Sprintf("Your campus crime alerts verification code is: %s. Valid for 10 minutes.", code)
	if _, err := s.Sender.Send(ctx, phoneNumber, message); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

// VerifyCode redeems a code. Number-not-found, expired, and wrong-code are
// distinct errors; the subscriber stays in pending-code on failure so the
// user can re-enter or resend.
func (s *SmsService) VerifyCode(ctx context.Context, phoneNumber, code string) error {
	subscriber, err := s.DB.FindOne(ctx, bson.M{"phoneNumber": phoneNumber})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNumberNotFound
		}
		return fmt.Errorf("failed to find subscriber: %w", err)
	}

	if s.Clock.Now().After(subscriber.CodeExpiresAt) {
		return ErrCodeExpired
	}
	if subscriber.VerificationCode != code {
		return ErrCodeInvalid
	}

	err = s.DB.UpsertOne(ctx,
		bson.M{"phoneNumber": phoneNumber},
		bson.M{
			"$set":   bson.M{"verified": true, "subscribedAt": s.Clock.Now()},
			"$unset": bson.M{"verificationCode": "", "codeExpiresAt": "", "codeSentAt": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to mark subscriber verified: %w", err)
	}

	zap.S().Infow("sms subscriber verified")
	return nil
}

// ResendCode issues a new code for a number already in the handshake.
// Rejected while the 60-second cooldown since the last send is still
// running.
func (s *SmsService) ResendCode(ctx context.Context, phoneNumber string) error {
	subscriber, err := s.DB.FindOne(ctx, bson.M{"phoneNumber": phoneNumber})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to find subscriber: %w", err)
	}

	if subscriber != nil && !subscriber.CodeSentAt.IsZero() {
		if s.Clock.Now().Sub(subscriber.CodeSentAt) < resendCooldown {
			return ErrResendThrottled
		}
	}
	return s.SendVerificationCode(ctx, phoneNumber)
}

// Unsubscribe removes the subscriber row entirely, returning the number to
// the unverified state
func (s *SmsService) Unsubscribe(ctx context.Context, phoneNumber string) error {
	if err := s.DB.DeleteOne(ctx, bson.M{"phoneNumber": phoneNumber}); err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	return nil
}

// Status derives the channel state for a number: unverified when no row
// exists, verified once the handshake completed, pending-code in between
func (s *SmsService) Status(ctx context.Context, phoneNumber string) (string, error) {
	subscriber, err := s.DB.FindOne(ctx, bson.M{"phoneNumber": phoneNumber})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SmsStateUnverified, nil
		}
		return "", fmt.Errorf("failed to find subscriber: %w", err)
	}
	if subscriber.Verified {
		return SmsStateVerified, nil
	}
	return SmsStatePendingCode, nil
}
