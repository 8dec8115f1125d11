package provider

import "context"

// PaymentDetail is the processor's authoritative view of a payment.
type PaymentDetail struct {
	PaymentID     string
	Status        string
	Email         string
	Amount        float64
	PaymentMethod string
}

type Provider interface {
	Code() string
	GetPayment(ctx context.Context, paymentID string) (*PaymentDetail, error)
}
