package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexgaoth/campus-crime-api/api"
	"github.com/alexgaoth/campus-crime-api/config"
	"github.com/alexgaoth/campus-crime-api/notifications"
)

// Sms handles the SMS subscription handshake requests
type Sms struct {
	Service *notifications.SmsService
	Metrics *api.Metrics
}

type smsRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code,omitempty"`
}

// SubscribeHandler issues a verification code for a phone number
func (s Sms) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.SendVerificationCode(ctx, req.PhoneNumber); err != nil {
		s.countSend("error")
		config.ErrorStatus("failed to send verification code", smsErrorStatus(err), w, err)
		return
	}
	s.countSend("success")
	writeSuccess(w)
}

// VerifyHandler redeems a verification code. Expired and invalid codes get
// distinct messages so the user knows whether to re-enter or resend.
func (s Sms) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.VerifyCode(ctx, req.PhoneNumber, req.Code); err != nil {
		config.ErrorStatus("verification failed", smsErrorStatus(err), w, err)
		return
	}
	writeSuccess(w)
}

// ResendHandler re-issues a code, subject to the 60-second cooldown
func (s Sms) ResendHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.ResendCode(ctx, req.PhoneNumber); err != nil {
		s.countSend("error")
		config.ErrorStatus("failed to resend verification code", smsErrorStatus(err), w, err)
		return
	}
	s.countSend("success")
	writeSuccess(w)
}

// UnsubscribeHandler deletes the subscriber row
func (s Sms) UnsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.Unsubscribe(ctx, req.PhoneNumber); err != nil {
		config.ErrorStatus("failed to unsubscribe", http.StatusInternalServerError, w, err)
		return
	}
	writeSuccess(w)
}

// StatusHandler reports the channel state for a number
func (s Sms) StatusHandler(w http.ResponseWriter, r *http.Request) {
	phoneNumber := r.URL.Query().Get("phoneNumber")

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	state, err := s.Service.Status(ctx, phoneNumber)
	if err != nil {
		config.ErrorStatus("failed to get subscription status", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, map[string]string{"state": state})
}

func (s Sms) countSend(outcome string) {
	if s.Metrics != nil {
		s.Metrics.SmsSends.WithLabelValues(outcome).Inc()
	}
}

func smsErrorStatus(err error) int {
	switch {
	case errors.Is(err, notifications.ErrInvalidPhoneNumber),
		errors.Is(err, notifications.ErrCodeExpired),
		errors.Is(err, notifications.ErrCodeInvalid):
		return http.StatusBadRequest
	case errors.Is(err, notifications.ErrNumberNotFound):
		return http.StatusNotFound
	case errors.Is(err, notifications.ErrResendThrottled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success": true}`))
}
