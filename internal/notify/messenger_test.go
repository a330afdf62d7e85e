package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

func newTestMessenger(serverURL string) *TwilioMessenger {
	m := NewTwilioMessenger(TwilioConfig{
		AccountSID: "ACtest",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		ToNumber:   "+15550002222",
		Timeout:    5 * time.Second,
	})
	m.endpoint = serverURL
	return m
}

func TestTwilioSendWhatsApp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/ACtest/Messages.json" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ACtest" || pass != "token" {
			t.Error("Expected basic auth with account SID and token")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if got := r.PostForm.Get("From"); got != "whatsapp:+15550001111" {
			t.Errorf("Expected whatsapp-prefixed From, got %q", got)
		}
		if got := r.PostForm.Get("To"); got != "whatsapp:+15550002222" {
			t.Errorf("Expected whatsapp-prefixed To, got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid": "SM123"}`)
	}))
	defer server.Close()

	m := newTestMessenger(server.URL)
	sid, err := m.Send(context.Background(), "AAPL moved 4.00%", models.ChannelWhatsApp)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if sid != "SM123" {
		t.Errorf("Expected SID SM123, got %q", sid)
	}
}

func TestTwilioSendSMSKeepsPlainNumbers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if got := r.PostForm.Get("From"); got != "+15550001111" {
			t.Errorf("SMS From should not carry a prefix, got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid": "SM124"}`)
	}))
	defer server.Close()

	m := newTestMessenger(server.URL)
	if _, err := m.Send(context.Background(), "body", models.ChannelSMS); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
}

func TestTwilioSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "The 'To' number is not a valid phone number."}`)
	}))
	defer server.Close()

	m := newTestMessenger(server.URL)
	_, err := m.Send(context.Background(), "body", models.ChannelSMS)
	if !apperrors.Is(err, apperrors.ErrProviderRejected) {
		t.Errorf("Expected ErrProviderRejected, got %v", err)
	}
}

func TestTwilioSendRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message": "Too many requests"}`)
	}))
	defer server.Close()

	m := newTestMessenger(server.URL)
	if _, err := m.Send(context.Background(), "body", models.ChannelSMS); !apperrors.Is(err, apperrors.ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestTwilioNotConfigured(t *testing.T) {
	m := NewTwilioMessenger(TwilioConfig{})
	if m.IsConfigured() {
		t.Error("Empty config should not be considered configured")
	}
	if _, err := m.Send(context.Background(), "body", models.ChannelSMS); !apperrors.Is(err, apperrors.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}
