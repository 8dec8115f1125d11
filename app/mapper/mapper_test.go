package mapper

import (
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

func TestDeliveryLogToResponseKeepsPayloadJSON(t *testing.T) {
	status := int32(500)
	item := &entity.DeliveryLog{
		ID:             7,
		UserID:         "user-1",
		WebhookURL:     "https://ex.com/hook",
		EventType:      entity.EventTypePaymentFailed,
		PayloadJSON:    `{"event_type":"payment_failed"}`,
		ResponseStatus: &status,
		Source:         entity.DeliverySourceWebhook,
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	got := DeliveryLogToResponse(item)
	if string(got.Payload) != `{"event_type":"payment_failed"}` {
		t.Fatalf("unexpected payload: %s", got.Payload)
	}
	if got.ResponseStatus == nil || *got.ResponseStatus != 500 {
		t.Fatalf("unexpected response status: %v", got.ResponseStatus)
	}
	if got.CreatedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected created_at: %s", got.CreatedAt)
	}
}

func TestDeliveryLogToResponseQuotesNonJSONPayload(t *testing.T) {
	got := DeliveryLogToResponse(&entity.DeliveryLog{PayloadJSON: "plain text"})
	if string(got.Payload) != `"plain text"` {
		t.Fatalf("unexpected payload: %s", got.Payload)
	}
}

func TestPaymentRecordsToResponseNilSafe(t *testing.T) {
	if PaymentRecordToResponse(nil) != nil {
		t.Fatal("expected nil for nil record")
	}
	items := PaymentRecordsToResponse([]*entity.PaymentRecord{{PaymentID: "1", Amount: 37.9}})
	if len(items) != 1 || items[0].PaymentId != "1" || items[0].Amount != 37.9 {
		t.Fatalf("unexpected mapped records: %+v", items)
	}
	if items[0].ObservedAt != "" {
		t.Fatalf("expected empty observed_at for zero time, got %q", items[0].ObservedAt)
	}
}
