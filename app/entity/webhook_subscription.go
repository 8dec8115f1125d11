package entity

import "time"

type WebhookSubscription struct {
	ID uint64

	UserID     string
	WebhookURL string
	IsActive   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
