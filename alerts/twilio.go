package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SMSSender dispatches a single text message and returns the provider's
// delivery identifier
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) (string, error)
}

// PhonePattern is the accepted subscriber number format: +1 followed by ten
// digits. Anything else is rejected client-side and never dispatched.
var PhonePattern = regexp.MustCompile(`^\+1\d{10}$`)

// TwilioSender implements SMSSender against the Twilio Messages API
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioSender creates a Twilio SMS dispatcher
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    "https://api.twilio.com/2010-04-01",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type twilioResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send posts one message to the Twilio Messages endpoint. The number must
// already match PhonePattern; invalid numbers fail before any request goes
// out.
func (t *TwilioSender) Send(ctx context.Context, phoneNumber, message string) (string, error) {
	if !PhonePattern.MatchString(phoneNumber) {
		return "", fmt.Errorf("invalid phone number format: must be E.164 (+1XXXXXXXXXX)")
	}

	form := url.Values{
		"To":   {phoneNumber},
		"From": {t.fromNumber},
		"Body": {message},
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create sms request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send sms request: %w", err)
	}
	defer resp.Body.Close()

	var body twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio API returned status %d: %s", resp.StatusCode, body.Message)
	}

	zap.S().Infow("sms dispatched",
		"sid", body.Sid,
		"status", body.Status,
	)
	return body.Sid, nil
}
