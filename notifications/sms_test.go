package notifications_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	mocksdb "github.com/alexgaoth/campus-crime-api/databases/mocks"
	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/notifications"
)

// fakeSender records sent messages so tests can assert on dispatch without
// hitting a carrier
type fakeSender struct {
	mu       sync.Mutex
	messages []string
	numbers  []string
}

func (f *fakeSender) Send(ctx context.Context, phoneNumber, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numbers = append(f.numbers, phoneNumber)
	f.messages = append(f.messages, message)
	return "SM123", nil
}

func TestSmsService_SendVerificationCode(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("UpsertOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sender := &fakeSender{}
	svc := notifications.NewSmsService(db, sender, clockwork.NewFakeClock())

	err := svc.SendVerificationCode(context.Background(), "+15551234567")
	assert.NoError(t, err)
	assert.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "verification code")
	db.AssertExpectations(t)
}

func TestSmsService_SendVerificationCodeRejectsBadNumber(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	sender := &fakeSender{}
	svc := notifications.NewSmsService(db, sender, clockwork.NewFakeClock())

	for _, number := range []string{"", "5551234567", "+445551234567", "+1555123456", "not-a-number"} {
		err := svc.SendVerificationCode(context.Background(), number)
		assert.ErrorIs(t, err, notifications.ErrInvalidPhoneNumber, "number %q", number)
	}
	assert.Empty(t, sender.messages)
	db.AssertNotCalled(t, "UpsertOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestSmsService_VerifyCode(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issued := clock.Now()

	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.SmsSubscriber{
		PhoneNumber:      "+15551234567",
		VerificationCode: "123456",
		CodeExpiresAt:    issued.Add(10 * time.Minute),
		CodeSentAt:       issued,
	}, nil)
	db.On("UpsertOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := notifications.NewSmsService(db, &fakeSender{}, clock)

	err := svc.VerifyCode(context.Background(), "+15551234567", "123456")
	assert.NoError(t, err)
	db.AssertExpectations(t)
}

func TestSmsService_VerifyCodeExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issued := clock.Now()

	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.SmsSubscriber{
		PhoneNumber:      "+15551234567",
		VerificationCode: "123456",
		CodeExpiresAt:    issued.Add(10 * time.Minute),
		CodeSentAt:       issued,
	}, nil)

	svc := notifications.NewSmsService(db, &fakeSender{}, clock)
	clock.Advance(11 * time.Minute)

	// expired wins over wrong-code: even the correct code is rejected as
	// expired, never as invalid
	err := svc.VerifyCode(context.Background(), "+15551234567", "123456")
	assert.ErrorIs(t, err, notifications.ErrCodeExpired)

	err = svc.VerifyCode(context.Background(), "+15551234567", "000000")
	assert.ErrorIs(t, err, notifications.ErrCodeExpired)
}

func TestSmsService_VerifyCodeInvalid(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issued := clock.Now()

	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.SmsSubscriber{
		PhoneNumber:      "+15551234567",
		VerificationCode: "123456",
		CodeExpiresAt:    issued.Add(10 * time.Minute),
		CodeSentAt:       issued,
	}, nil)

	svc := notifications.NewSmsService(db, &fakeSender{}, clock)

	err := svc.VerifyCode(context.Background(), "+15551234567", "654321")
	assert.ErrorIs(t, err, notifications.ErrCodeInvalid)
}

func TestSmsService_VerifyCodeUnknownNumber(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	svc := notifications.NewSmsService(db, &fakeSender{}, clockwork.NewFakeClock())

	err := svc.VerifyCode(context.Background(), "+15551234567", "123456")
	assert.ErrorIs(t, err, notifications.ErrNumberNotFound)
}

func TestSmsService_ResendCooldown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sentAt := clock.Now()

	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.SmsSubscriber{
		PhoneNumber: "+15551234567",
		CodeSentAt:  sentAt,
	}, nil)
	db.On("UpsertOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sender := &fakeSender{}
	svc := notifications.NewSmsService(db, sender, clock)

	clock.Advance(30 * time.Second)
	err := svc.ResendCode(context.Background(), "+15551234567")
	assert.ErrorIs(t, err, notifications.ErrResendThrottled)
	assert.Empty(t, sender.messages)

	clock.Advance(31 * time.Second)
	err = svc.ResendCode(context.Background(), "+15551234567")
	assert.NoError(t, err)
	assert.Len(t, sender.messages, 1)
}

func TestSmsService_ResendForUnknownNumberIssuesFreshCode(t *testing.T) {
	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	db.On("UpsertOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	sender := &fakeSender{}
	svc := notifications.NewSmsService(db, sender, clockwork.NewFakeClock())

	err := svc.ResendCode(context.Background(), "+15551234567")
	assert.NoError(t, err)
	assert.Len(t, sender.messages, 1)
}

func TestSmsService_Status(t *testing.T) {
	ctx := context.Background()

	db := &mocksdb.SmsSubscriberDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments).Once()
	svc := notifications.NewSmsService(db, &fakeSender{}, clockwork.NewFakeClock())

	state, err := svc.Status(ctx, "+15551234567")
	assert.NoError(t, err)
	assert.Equal(t, notifications.SmsStateUnverified, state)

	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.SmsSubscriber{Verified: false}, nil).Once()
	state, err = svc.Status(ctx, "+15551234567")
	assert.NoError(t, err)
	assert.Equal(t, notifications.SmsStatePendingCode, state)

	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.SmsSubscriber{Verified: true}, nil).Once()
	state, err = svc.Status(ctx, "+15551234567")
	assert.NoError(t, err)
	assert.Equal(t, notifications.SmsStateVerified, state)
}
