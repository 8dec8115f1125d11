package entity

import "time"

const (
	EventTypePaymentSuccess = "payment_success"
	EventTypePaymentPending = "payment_pending"
	EventTypePaymentFailed  = "payment_failed"
	EventTypeTest           = "test"
)

const (
	DeliverySourceWebhook    = "webhook_delivery"
	DeliverySourceManualTest = "manual_test"
)

// DeliveryErrorURL replaces the destination when the request never got a response.
const DeliveryErrorURL = "error"

type DeliveryLog struct {
	ID uint64

	UserID     string
	WebhookURL string
	EventType  string

	PayloadJSON string

	ResponseStatus *int32
	ResponseBody   *string
	Success        bool
	Source         string

	CreatedAt time.Time
}
