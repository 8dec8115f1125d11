package types

import "encoding/json"

type ErrorResponse struct {
	Error string `json:"error"`
}

type NotificationResponse struct {
	Ok bool `json:"ok"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status"`
}

func (r *HealthResponse) GetStatus() string {
	if r == nil {
		return ""
	}
	return r.Status
}

type PaymentRecord struct {
	PaymentId     string  `json:"payment_id"`
	Email         string  `json:"email"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	ObservedAt    string  `json:"observed_at"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type DeliveryLog struct {
	Id             uint64          `json:"id"`
	UserId         string          `json:"user_id"`
	WebhookUrl     string          `json:"webhook_url"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	ResponseStatus *int32          `json:"response_status"`
	ResponseBody   *string         `json:"response_body"`
	Success        bool            `json:"success"`
	Source         string          `json:"source"`
	CreatedAt      string          `json:"created_at"`
}

type WebhookSettings struct {
	UserId     string `json:"user_id"`
	WebhookUrl string `json:"webhook_url"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type PaymentEnvelopeResponse struct {
	Payment *PaymentRecord `json:"payment"`
}

func (r *PaymentEnvelopeResponse) GetPayment() *PaymentRecord {
	if r == nil {
		return nil
	}
	return r.Payment
}

type ListPaymentsResponse struct {
	Payments []*PaymentRecord `json:"payments"`
}

func (r *ListPaymentsResponse) GetPayments() []*PaymentRecord {
	if r == nil {
		return nil
	}
	return r.Payments
}

type ListDeliveryLogsResponse struct {
	Logs []*DeliveryLog `json:"logs"`
}

func (r *ListDeliveryLogsResponse) GetLogs() []*DeliveryLog {
	if r == nil {
		return nil
	}
	return r.Logs
}

type WebhookSettingsResponse struct {
	Settings *WebhookSettings `json:"settings"`
}

type TestWebhookResponse struct {
	Success         bool   `json:"success"`
	StatusCode      int32  `json:"status_code"`
	ResponsePreview string `json:"response_preview"`
}
