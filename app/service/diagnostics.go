package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/factory"
	"github.com/vibast-solutions/ms-go-payment-webhooks/config"
)

const (
	defaultTestPreviewLimit = 200

	testPaymentAmount = 37.9
	testPaymentMethod = "pix"
	testPaymentNote   = "This is a test webhook sent from the webhook settings page."
)

type testWebhookRequest interface {
	GetWebhookUrl() string
}

type testRateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type TestDeliveryResult struct {
	Success         bool
	StatusCode      int32
	ResponsePreview string
}

// WebhookTestService sends synthetic events so users can check an endpoint before saving it.
type WebhookTestService struct {
	dispatcher   *WebhookDispatcher
	limiter      testRateLimiter
	previewLimit int
	logger       logrus.FieldLogger
}

func NewWebhookTestService(dispatcher *WebhookDispatcher, limiter testRateLimiter, cfg config.WebhooksConfig) *WebhookTestService {
	previewLimit := cfg.TestPreviewLimit
	if previewLimit <= 0 {
		previewLimit = defaultTestPreviewLimit
	}

	return &WebhookTestService{
		dispatcher:   dispatcher,
		limiter:      limiter,
		previewLimit: previewLimit,
		logger:       factory.NewModuleLogger("webhook-test-service"),
	}
}

func (s *WebhookTestService) SendTest(ctx context.Context, userID, email string, req testWebhookRequest) (*TestDeliveryResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	webhookURL := strings.TrimSpace(req.GetWebhookUrl())
	if webhookURL == "" {
		return nil, ErrInvalidRequest
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("Webhook test rate limit check failed")
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	now := s.dispatcher.now()
	payload := &WebhookPayload{
		EventType:     entity.EventTypeTest,
		PaymentID:     fmt.Sprintf("test_%d", now.UnixMilli()),
		Email:         email,
		Amount:        testPaymentAmount,
		Status:        entity.ProcessorStatusApproved,
		PaymentMethod: testPaymentMethod,
		Timestamp:     now.Format(timestampLayout),
		Note:          testPaymentNote,
	}

	result := s.dispatcher.deliver(ctx, userID, webhookURL, payload, entity.DeliverySourceManualTest)
	if result.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, result.Err)
	}

	return &TestDeliveryResult{
		Success:         result.Success,
		StatusCode:      result.StatusCode,
		ResponsePreview: truncateRunes(result.ResponseBody, s.previewLimit),
	}, nil
}
