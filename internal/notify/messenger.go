// Package notify sends alert notifications and records their delivery
// outcome.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// Messenger delivers a message body over a channel and returns the provider's
// message reference.
type Messenger interface {
	Send(ctx context.Context, body string, channel models.Channel) (string, error)
	IsConfigured() bool
}

const twilioEndpoint = "https://api.twilio.com/2010-04-01"

// TwilioMessenger sends WhatsApp or SMS messages through the Twilio REST API.
type TwilioMessenger struct {
	accountSID string
	authToken  string
	fromNumber string
	toNumber   string
	endpoint   string
	client     *http.Client
}

// TwilioConfig holds credentials for the Twilio messenger.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
	Timeout    time.Duration
}

// NewTwilioMessenger creates a new Twilio-backed messenger.
func NewTwilioMessenger(cfg TwilioConfig) *TwilioMessenger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TwilioMessenger{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		toNumber:   cfg.ToNumber,
		endpoint:   twilioEndpoint,
		client:     &http.Client{Timeout: timeout},
	}
}

// IsConfigured reports whether credentials and phone numbers are present.
func (t *TwilioMessenger) IsConfigured() bool {
	return t.accountSID != "" && t.authToken != "" && t.fromNumber != "" && t.toNumber != ""
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
}

// Send delivers the body over WhatsApp or SMS and returns the Twilio message
// SID.
func (t *TwilioMessenger) Send(ctx context.Context, body string, channel models.Channel) (string, error) {
	if !t.IsConfigured() {
		return "", apperrors.ErrNotConfigured
	}

	from, to := t.fromNumber, t.toNumber
	if channel == models.ChannelWhatsApp {
		from = "whatsapp:" + from
		to = "whatsapp:" + to
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.endpoint, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewProviderError("twilio", "send", 0, err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrProviderUnavailable, "twilio send")
	}
	defer resp.Body.Close()

	var data twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil && resp.StatusCode < 300 {
		return "", apperrors.NewProviderError("twilio", "send", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		return data.SID, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", apperrors.ErrRateLimited
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", apperrors.NewProviderError("twilio", "send", resp.StatusCode,
			fmt.Errorf("%s: %w", data.Message, apperrors.ErrProviderRejected))
	default:
		return "", apperrors.NewProviderError("twilio", "send", resp.StatusCode, apperrors.ErrProviderUnavailable)
	}
}
