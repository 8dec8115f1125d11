package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/factory"
	"github.com/vibast-solutions/ms-go-payment-webhooks/config"
)

const (
	defaultResponseBodyLimit = 1000
	timestampLayout          = "2006-01-02T15:04:05.000Z07:00"
)

type webhookSubscriptionRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.WebhookSubscription, error)
}

type deliveryLogRepository interface {
	Create(ctx context.Context, item *entity.DeliveryLog) error
}

type deliveryMetrics interface {
	ObserveDelivery(source string, success bool, duration time.Duration)
}

// PaymentData is the payment snapshot forwarded to a subscriber.
type PaymentData struct {
	PaymentID     string
	Email         string
	Amount        float64
	Status        string
	PaymentMethod string
}

type WebhookPayload struct {
	EventType     string  `json:"event_type"`
	PaymentID     string  `json:"payment_id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	Timestamp     string  `json:"timestamp"`
	Note          string  `json:"note,omitempty"`
}

// DispatchResult describes one dispatch. Err is the delivery error when the request never
// produced a response; LogErr is set when the audit entry could not be written.
type DispatchResult struct {
	Skipped      bool
	Success      bool
	StatusCode   int32
	ResponseBody string
	Err          error
	LogErr       error
	Log          *entity.DeliveryLog
}

type WebhookDispatcher struct {
	subscriptionRepo  webhookSubscriptionRepository
	logRepo           deliveryLogRepository
	metrics           deliveryMetrics
	client            *http.Client
	responseBodyLimit int
	now               func() time.Time
	logger            logrus.FieldLogger
}

func NewWebhookDispatcher(
	subscriptionRepo webhookSubscriptionRepository,
	logRepo deliveryLogRepository,
	metrics deliveryMetrics,
	cfg config.WebhooksConfig,
) *WebhookDispatcher {
	limit := cfg.ResponseBodyLimit
	if limit <= 0 {
		limit = defaultResponseBodyLimit
	}

	return &WebhookDispatcher{
		subscriptionRepo:  subscriptionRepo,
		logRepo:           logRepo,
		metrics:           metrics,
		client:            &http.Client{Timeout: cfg.DeliveryTimeout},
		responseBodyLimit: limit,
		now:               func() time.Time { return time.Now().UTC() },
		logger:            factory.NewModuleLogger("webhook-dispatcher"),
	}
}

// Dispatch forwards a payment event to the user's active subscription. It never fails:
// every outcome is reported through the returned result and the delivery log.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, userID, eventType string, data PaymentData) *DispatchResult {
	subscription, err := d.subscriptionRepo.FindByUserID(ctx, userID)
	if err != nil {
		d.logger.WithError(err).WithField("user_id", userID).Error("Webhook subscription lookup failed")
		return &DispatchResult{Skipped: true}
	}
	if subscription == nil || !subscription.IsActive || strings.TrimSpace(subscription.WebhookURL) == "" {
		return &DispatchResult{Skipped: true}
	}

	payload := &WebhookPayload{
		EventType:     eventType,
		PaymentID:     data.PaymentID,
		Email:         data.Email,
		Amount:        data.Amount,
		Status:        data.Status,
		PaymentMethod: data.PaymentMethod,
		Timestamp:     d.now().Format(timestampLayout),
	}

	return d.deliver(ctx, userID, subscription.WebhookURL, payload, entity.DeliverySourceWebhook)
}

func (d *WebhookDispatcher) deliver(ctx context.Context, userID, webhookURL string, payload *WebhookPayload, source string) *DispatchResult {
	ctx = context.WithoutCancel(ctx)
	l := d.logger.WithField("user_id", userID).WithField("source", source)

	body, err := json.Marshal(payload)
	if err != nil {
		return d.recordFailure(ctx, l, userID, payload, "", source, err, 0)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return d.recordFailure(ctx, l, userID, payload, string(body), source, err, time.Since(start))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return d.recordFailure(ctx, l, userID, payload, string(body), source, err, time.Since(start))
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, int64(d.responseBodyLimit)*utf8.UTFMax))
	if readErr != nil {
		l.WithError(readErr).Warn("Webhook response body read failed")
	}
	duration := time.Since(start)

	responseBody := truncateRunes(string(raw), d.responseBodyLimit)
	statusCode := int32(resp.StatusCode)
	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	entry := &entity.DeliveryLog{
		UserID:         userID,
		WebhookURL:     webhookURL,
		EventType:      payload.EventType,
		PayloadJSON:    string(body),
		ResponseStatus: &statusCode,
		ResponseBody:   &responseBody,
		Success:        success,
		Source:         source,
		CreatedAt:      d.now(),
	}

	result := &DispatchResult{
		Success:      success,
		StatusCode:   statusCode,
		ResponseBody: responseBody,
		Log:          entry,
	}
	result.LogErr = d.writeLog(ctx, l, entry)
	d.observe(source, success, duration)

	l.WithField("status_code", statusCode).WithField("success", success).Info("Webhook delivered")
	return result
}

// recordFailure logs an attempt that never produced a response. The URL is replaced by the
// error sentinel and the error text takes the place of the response body.
func (d *WebhookDispatcher) recordFailure(
	ctx context.Context,
	l logrus.FieldLogger,
	userID string,
	payload *WebhookPayload,
	body string,
	source string,
	deliveryErr error,
	duration time.Duration,
) *DispatchResult {
	message := truncateRunes(deliveryErr.Error(), d.responseBodyLimit)
	entry := &entity.DeliveryLog{
		UserID:       userID,
		WebhookURL:   entity.DeliveryErrorURL,
		EventType:    payload.EventType,
		PayloadJSON:  body,
		ResponseBody: &message,
		Success:      false,
		Source:       source,
		CreatedAt:    d.now(),
	}

	result := &DispatchResult{
		Err:          deliveryErr,
		ResponseBody: message,
		Log:          entry,
	}
	result.LogErr = d.writeLog(ctx, l, entry)
	d.observe(source, false, duration)

	l.WithError(deliveryErr).Warn("Webhook delivery failed")
	return result
}

func (d *WebhookDispatcher) writeLog(ctx context.Context, l logrus.FieldLogger, entry *entity.DeliveryLog) error {
	if err := d.logRepo.Create(ctx, entry); err != nil {
		l.WithError(err).Error("Delivery log write failed")
		return err
	}
	return nil
}

func (d *WebhookDispatcher) observe(source string, success bool, duration time.Duration) {
	if d.metrics == nil {
		return
	}
	d.metrics.ObserveDelivery(source, success, duration)
}

func truncateRunes(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}
