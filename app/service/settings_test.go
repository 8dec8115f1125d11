package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

type upsertReq struct {
	url    string
	active bool
}

func (r upsertReq) GetWebhookUrl() string { return r.url }
func (r upsertReq) GetIsActive() bool     { return r.active }

type logsReq struct {
	userID string
	limit  int32
}

func (r logsReq) GetUserId() string { return r.userID }
func (r logsReq) GetLimit() int32   { return r.limit }

func TestWebhookSettingsLifecycle(t *testing.T) {
	subs := newServiceSubscriptionRepo()
	svc := NewWebhookSettingsService(subs, &serviceDeliveryLogRepo{})

	if _, err := svc.GetSettings(context.Background(), "user-1"); !errors.Is(err, ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}

	first, err := svc.UpsertSettings(context.Background(), "user-1", upsertReq{url: "https://a.example/hook", active: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.UpsertSettings(context.Background(), "user-1", upsertReq{url: "https://b.example/hook", active: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(subs.items) != 1 {
		t.Fatalf("expected one subscription per user, got %d", len(subs.items))
	}
	if first.ID != second.ID || second.WebhookURL != "https://b.example/hook" || second.IsActive {
		t.Fatalf("expected overwrite of the same subscription, got first=%+v second=%+v", first, second)
	}

	if _, err := svc.UpsertSettings(context.Background(), "user-1", upsertReq{url: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestListDeliveryLogsNewestFirst(t *testing.T) {
	logs := &serviceDeliveryLogRepo{}
	for _, eventType := range []string{entity.EventTypeTest, entity.EventTypePaymentSuccess, entity.EventTypePaymentFailed} {
		_ = logs.Create(context.Background(), &entity.DeliveryLog{UserID: "user-1", EventType: eventType})
	}
	_ = logs.Create(context.Background(), &entity.DeliveryLog{UserID: "user-2", EventType: entity.EventTypeTest})

	svc := NewWebhookSettingsService(newServiceSubscriptionRepo(), logs)
	items, err := svc.ListDeliveryLogs(context.Background(), logsReq{userID: "user-1", limit: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 || items[0].EventType != entity.EventTypePaymentFailed {
		t.Fatalf("unexpected logs: %+v", items)
	}

	if _, err := svc.ListDeliveryLogs(context.Background(), logsReq{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
