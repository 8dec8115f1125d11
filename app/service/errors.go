package service

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrProviderUnsupported = errors.New("provider is not supported")
	ErrRateLimited         = errors.New("too many webhook tests, try again later")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrSettingsNotFound    = errors.New("webhook settings not found")
	ErrDeliveryFailed      = errors.New("webhook delivery failed")
)
