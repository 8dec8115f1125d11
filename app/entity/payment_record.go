package entity

import "time"

const (
	ProcessorStatusApproved  = "approved"
	ProcessorStatusPending   = "pending"
	ProcessorStatusRejected  = "rejected"
	ProcessorStatusCancelled = "cancelled"
)

// PaymentRecord is the local copy of a processor payment, keyed by PaymentID.
// Status keeps the raw processor value, so values outside the known set are stored as-is.
type PaymentRecord struct {
	ID uint64

	PaymentID     string
	Email         string
	Status        string
	Amount        float64
	PaymentMethod string

	ObservedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
