package service

import (
	"context"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
)

type webhookSettingsRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.WebhookSubscription, error)
	Upsert(ctx context.Context, item *entity.WebhookSubscription) error
}

type deliveryLogReader interface {
	ListByUser(ctx context.Context, userID string, limit int32) ([]*entity.DeliveryLog, error)
}

type upsertWebhookSettingsRequest interface {
	GetWebhookUrl() string
	GetIsActive() bool
}

type listDeliveryLogsRequest interface {
	GetUserId() string
	GetLimit() int32
}

type WebhookSettingsService struct {
	subscriptionRepo webhookSettingsRepository
	logRepo          deliveryLogReader
}

func NewWebhookSettingsService(subscriptionRepo webhookSettingsRepository, logRepo deliveryLogReader) *WebhookSettingsService {
	return &WebhookSettingsService{
		subscriptionRepo: subscriptionRepo,
		logRepo:          logRepo,
	}
}

func (s *WebhookSettingsService) GetSettings(ctx context.Context, userID string) (*entity.WebhookSubscription, error) {
	item, err := s.subscriptionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrSettingsNotFound
	}
	return item, nil
}

// UpsertSettings keeps a single subscription per user; a second save overwrites the first.
func (s *WebhookSettingsService) UpsertSettings(ctx context.Context, userID string, req upsertWebhookSettingsRequest) (*entity.WebhookSubscription, error) {
	userID = strings.TrimSpace(userID)
	webhookURL := strings.TrimSpace(req.GetWebhookUrl())
	if userID == "" || webhookURL == "" {
		return nil, ErrInvalidRequest
	}

	now := time.Now().UTC()
	item := &entity.WebhookSubscription{
		UserID:     userID,
		WebhookURL: webhookURL,
		IsActive:   req.GetIsActive(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.subscriptionRepo.Upsert(ctx, item); err != nil {
		return nil, err
	}

	return s.subscriptionRepo.FindByUserID(ctx, userID)
}

func (s *WebhookSettingsService) ListDeliveryLogs(ctx context.Context, req listDeliveryLogsRequest) ([]*entity.DeliveryLog, error) {
	userID := strings.TrimSpace(req.GetUserId())
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	return s.logRepo.ListByUser(ctx, userID, req.GetLimit())
}
