package mapper

import (
	"encoding/json"
	"time"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
)

func PaymentRecordToResponse(item *entity.PaymentRecord) *types.PaymentRecord {
	if item == nil {
		return nil
	}

	return &types.PaymentRecord{
		PaymentId:     item.PaymentID,
		Email:         item.Email,
		Status:        item.Status,
		Amount:        item.Amount,
		PaymentMethod: item.PaymentMethod,
		ObservedAt:    formatTime(item.ObservedAt),
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

func PaymentRecordsToResponse(items []*entity.PaymentRecord) []*types.PaymentRecord {
	result := make([]*types.PaymentRecord, 0, len(items))
	for _, item := range items {
		result = append(result, PaymentRecordToResponse(item))
	}
	return result
}

func DeliveryLogToResponse(item *entity.DeliveryLog) *types.DeliveryLog {
	if item == nil {
		return nil
	}

	return &types.DeliveryLog{
		Id:             item.ID,
		UserId:         item.UserID,
		WebhookUrl:     item.WebhookURL,
		EventType:      item.EventType,
		Payload:        rawPayload(item.PayloadJSON),
		ResponseStatus: item.ResponseStatus,
		ResponseBody:   item.ResponseBody,
		Success:        item.Success,
		Source:         item.Source,
		CreatedAt:      formatTime(item.CreatedAt),
	}
}

func DeliveryLogsToResponse(items []*entity.DeliveryLog) []*types.DeliveryLog {
	result := make([]*types.DeliveryLog, 0, len(items))
	for _, item := range items {
		result = append(result, DeliveryLogToResponse(item))
	}
	return result
}

func WebhookSubscriptionToResponse(item *entity.WebhookSubscription) *types.WebhookSettings {
	if item == nil {
		return nil
	}

	return &types.WebhookSettings{
		UserId:     item.UserID,
		WebhookUrl: item.WebhookURL,
		IsActive:   item.IsActive,
		CreatedAt:  formatTime(item.CreatedAt),
		UpdatedAt:  formatTime(item.UpdatedAt),
	}
}

// rawPayload keeps stored payloads as JSON when they are JSON and quotes them otherwise.
func rawPayload(payload string) json.RawMessage {
	if payload == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(payload)) {
		return json.RawMessage(payload)
	}
	quoted, _ := json.Marshal(payload)
	return quoted
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
