package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

func TestDispatchSkipsMissingOrInactiveSubscription(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	subs := newServiceSubscriptionRepo(&entity.WebhookSubscription{UserID: "inactive", WebhookURL: server.URL, IsActive: false})
	logs := &serviceDeliveryLogRepo{}
	dispatcher := newTestDispatcher(subs, logs)

	for _, userID := range []string{"inactive", "missing"} {
		for _, eventType := range []string{entity.EventTypePaymentSuccess, entity.EventTypePaymentPending, entity.EventTypePaymentFailed} {
			result := dispatcher.Dispatch(context.Background(), userID, eventType, PaymentData{PaymentID: "1"})
			if !result.Skipped {
				t.Fatalf("expected skipped dispatch for %s/%s", userID, eventType)
			}
		}
	}

	if calls != 0 {
		t.Fatalf("expected no network calls, got %d", calls)
	}
	if len(logs.all()) != 0 {
		t.Fatalf("expected no log entries, got %d", len(logs.all()))
	}
}

func TestDispatchSkipsOnSubscriptionLookupError(t *testing.T) {
	subs := newServiceSubscriptionRepo()
	subs.findErr = context.DeadlineExceeded
	logs := &serviceDeliveryLogRepo{}

	result := newTestDispatcher(subs, logs).Dispatch(context.Background(), "user-1", entity.EventTypePaymentSuccess, PaymentData{})
	if !result.Skipped {
		t.Fatal("expected skipped dispatch on lookup error")
	}
	if len(logs.all()) != 0 {
		t.Fatal("expected no log entries on lookup error")
	}
}

func TestDispatchPostsPayloadAndLogsSuccess(t *testing.T) {
	var received map[string]interface{}
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("expected no authorization header, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("received"))
	}))
	defer server.Close()

	subs := newServiceSubscriptionRepo(&entity.WebhookSubscription{UserID: "user-1", WebhookURL: server.URL, IsActive: true})
	logs := &serviceDeliveryLogRepo{}
	dispatcher := newTestDispatcher(subs, logs)
	dispatcher.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC) }

	result := dispatcher.Dispatch(context.Background(), "user-1", entity.EventTypePaymentSuccess, PaymentData{
		PaymentID:     "123",
		Email:         "a@x.com",
		Amount:        37.9,
		Status:        "approved",
		PaymentMethod: "pix",
	})

	if !result.Success || result.StatusCode != http.StatusAccepted || result.Err != nil {
		t.Fatalf("unexpected dispatch result: %+v", result)
	}
	if contentType != "application/json" {
		t.Fatalf("unexpected content type: %q", contentType)
	}

	expectedKeys := []string{"event_type", "payment_id", "email", "amount", "status", "payment_method", "timestamp"}
	if len(received) != len(expectedKeys) {
		t.Fatalf("unexpected payload keys: %v", received)
	}
	for _, key := range expectedKeys {
		if _, ok := received[key]; !ok {
			t.Fatalf("payload missing %s: %v", key, received)
		}
	}
	if received["amount"] != 37.9 || received["event_type"] != "payment_success" {
		t.Fatalf("unexpected payload values: %v", received)
	}
	if received["timestamp"] != "2026-03-04T05:06:07.008Z" {
		t.Fatalf("unexpected timestamp: %v", received["timestamp"])
	}

	entries := logs.all()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Source != entity.DeliverySourceWebhook || !entry.Success || entry.WebhookURL != server.URL {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.ResponseStatus == nil || *entry.ResponseStatus != http.StatusAccepted {
		t.Fatalf("unexpected response status: %v", entry.ResponseStatus)
	}
	if entry.ResponseBody == nil || *entry.ResponseBody != "received" {
		t.Fatalf("unexpected response body: %v", entry.ResponseBody)
	}
	var logged WebhookPayload
	if err := json.Unmarshal([]byte(entry.PayloadJSON), &logged); err != nil || logged.PaymentID != "123" {
		t.Fatalf("expected logged payload to be the sent body, got %q", entry.PayloadJSON)
	}
}

func TestDispatchNon2xxIsLoggedAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 1500)))
	}))
	defer server.Close()

	subs := newServiceSubscriptionRepo(&entity.WebhookSubscription{UserID: "user-1", WebhookURL: server.URL, IsActive: true})
	logs := &serviceDeliveryLogRepo{}

	result := newTestDispatcher(subs, logs).Dispatch(context.Background(), "user-1", entity.EventTypePaymentFailed, PaymentData{PaymentID: "9"})
	if result.Success || result.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected dispatch result: %+v", result)
	}

	entries := logs.all()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Success || entries[0].ResponseStatus == nil || *entries[0].ResponseStatus != 500 {
		t.Fatalf("unexpected log entry: %+v", entries[0])
	}
	if len(*entries[0].ResponseBody) != 1000 {
		t.Fatalf("expected response body truncated to 1000, got %d", len(*entries[0].ResponseBody))
	}
}

func TestDispatchNetworkFailureUsesErrorSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	subs := newServiceSubscriptionRepo(&entity.WebhookSubscription{UserID: "user-1", WebhookURL: url, IsActive: true})
	logs := &serviceDeliveryLogRepo{}

	result := newTestDispatcher(subs, logs).Dispatch(context.Background(), "user-1", entity.EventTypePaymentPending, PaymentData{PaymentID: "5"})
	if result.Success || result.Err == nil {
		t.Fatalf("expected delivery error, got %+v", result)
	}

	entries := logs.all()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.WebhookURL != entity.DeliveryErrorURL {
		t.Fatalf("expected error sentinel url, got %q", entry.WebhookURL)
	}
	if entry.ResponseStatus != nil {
		t.Fatalf("expected absent response status, got %v", *entry.ResponseStatus)
	}
	if entry.ResponseBody == nil || *entry.ResponseBody == "" {
		t.Fatal("expected error description in response body")
	}
}

func TestDispatchLogWriteFailureIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	subs := newServiceSubscriptionRepo(&entity.WebhookSubscription{UserID: "user-1", WebhookURL: server.URL, IsActive: true})
	logs := &serviceDeliveryLogRepo{createErr: context.Canceled}

	result := newTestDispatcher(subs, logs).Dispatch(context.Background(), "user-1", entity.EventTypePaymentSuccess, PaymentData{})
	if !result.Success || result.LogErr == nil {
		t.Fatalf("expected success with log error, got %+v", result)
	}
}

func TestDispatchIgnoresCallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	subs := newServiceSubscriptionRepo(&entity.WebhookSubscription{UserID: "user-1", WebhookURL: server.URL, IsActive: true})
	logs := &serviceDeliveryLogRepo{}

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher := newTestDispatcher(subs, logs)
	sub, _ := subs.FindByUserID(ctx, "user-1")
	cancel()

	result := dispatcher.deliver(ctx, "user-1", sub.WebhookURL, &WebhookPayload{EventType: entity.EventTypePaymentSuccess}, entity.DeliverySourceWebhook)
	if !result.Success {
		t.Fatalf("expected delivery to complete after caller cancellation, got %+v", result)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("ação", 2); got != "aç" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
