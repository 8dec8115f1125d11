package types

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/provider"
)

const (
	defaultPaymentsLimit = 20
	maxPaymentsLimit     = 500
	defaultLogsLimit     = 10
	maxLogsLimit         = 100

	// MaxNotificationBodyBytes caps what is buffered from an unauthenticated processor call.
	MaxNotificationBodyBytes = 64 << 10
	maxWebhookURLLength      = 2048
)

var ErrBodyTooLarge = errors.New("request body too large")

var validate = validator.New()

type NotificationRequest struct {
	Provider  string
	PaymentId string
}

func (r *NotificationRequest) GetProvider() string  { return r.Provider }
func (r *NotificationRequest) GetPaymentId() string { return r.PaymentId }

// NewNotificationRequestFromContext resolves the payment id from body.data.id, then the
// data.id query parameter. An unreadable body is treated as carrying no id.
func NewNotificationRequestFromContext(ctx echo.Context) (*NotificationRequest, error) {
	req := &NotificationRequest{
		Provider: strings.TrimSpace(strings.ToLower(ctx.Param("provider"))),
	}

	rawBody, err := io.ReadAll(io.LimitReader(ctx.Request().Body, MaxNotificationBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(rawBody) > MaxNotificationBodyBytes {
		return nil, ErrBodyTooLarge
	}

	var body struct {
		Data *struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if len(rawBody) > 0 && json.Unmarshal(rawBody, &body) == nil && body.Data != nil {
		req.PaymentId = provider.ParseID(body.Data.ID)
	}
	if req.PaymentId == "" {
		req.PaymentId = strings.TrimSpace(ctx.QueryParam("data.id"))
	}

	return req, nil
}

func (r *NotificationRequest) Validate() error {
	if r.GetProvider() == "" {
		return errors.New("provider is required")
	}
	return nil
}

type TestWebhookRequest struct {
	WebhookUrl string `json:"webhook_url" validate:"required,max=2048"`
}

func (r *TestWebhookRequest) GetWebhookUrl() string { return r.WebhookUrl }

func NewTestWebhookRequestFromContext(ctx echo.Context) (*TestWebhookRequest, error) {
	var body TestWebhookRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.WebhookUrl = strings.TrimSpace(body.WebhookUrl)
	return &body, nil
}

func (r *TestWebhookRequest) Validate() error {
	if strings.TrimSpace(r.WebhookUrl) == "" {
		return errors.New("webhook_url is required")
	}
	if err := validate.Struct(r); err != nil {
		return errors.New("webhook_url must be at most 2048 characters")
	}
	return nil
}

type UpsertWebhookSettingsRequest struct {
	WebhookUrl string `json:"webhook_url" validate:"required,max=2048,url"`
	IsActive   *bool  `json:"is_active"`
}

func (r *UpsertWebhookSettingsRequest) GetWebhookUrl() string { return r.WebhookUrl }

func (r *UpsertWebhookSettingsRequest) GetIsActive() bool {
	if r.IsActive == nil {
		return true
	}
	return *r.IsActive
}

func NewUpsertWebhookSettingsRequestFromContext(ctx echo.Context) (*UpsertWebhookSettingsRequest, error) {
	var body UpsertWebhookSettingsRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.WebhookUrl = strings.TrimSpace(body.WebhookUrl)
	return &body, nil
}

func (r *UpsertWebhookSettingsRequest) Validate() error {
	if strings.TrimSpace(r.WebhookUrl) == "" {
		return errors.New("webhook_url is required")
	}
	if len(r.WebhookUrl) > maxWebhookURLLength {
		return errors.New("webhook_url must be at most 2048 characters")
	}
	if err := validate.Struct(r); err != nil {
		return errors.New("webhook_url must be an absolute http or https URL")
	}
	if !IsHTTPURL(r.WebhookUrl) {
		return errors.New("webhook_url must be an absolute http or https URL")
	}
	return nil
}

// IsHTTPURL reports whether value is an absolute http or https URL.
func IsHTTPURL(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return (strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")) &&
		validate.Var(value, "url") == nil
}

type ListUserLogsRequest struct {
	Limit int32
}

func (r *ListUserLogsRequest) GetLimit() int32 { return r.Limit }

func NewListUserLogsRequestFromContext(ctx echo.Context) (*ListUserLogsRequest, error) {
	limit, err := parseInt32Query(ctx, "limit", defaultLogsLimit)
	if err != nil {
		return nil, err
	}
	return &ListUserLogsRequest{Limit: limit}, nil
}

func (r *ListUserLogsRequest) Validate() error {
	if r.Limit <= 0 || r.Limit > maxLogsLimit {
		return errors.New("limit must be between 1 and 100")
	}
	return nil
}

type ListPaymentsRequest struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (r *ListPaymentsRequest) GetLimit() int32  { return r.Limit }
func (r *ListPaymentsRequest) GetOffset() int32 { return r.Offset }

func NewListPaymentsRequestFromContext(ctx echo.Context) (*ListPaymentsRequest, error) {
	limit, err := parseInt32Query(ctx, "limit", defaultPaymentsLimit)
	if err != nil {
		return nil, err
	}
	offset, err := parseInt32Query(ctx, "offset", 0)
	if err != nil {
		return nil, err
	}
	return &ListPaymentsRequest{Limit: limit, Offset: offset}, nil
}

func (r *ListPaymentsRequest) Validate() error {
	if r.Limit == 0 {
		r.Limit = defaultPaymentsLimit
	}
	if r.Limit < 0 || r.Limit > maxPaymentsLimit {
		return errors.New("limit must be between 1 and 500")
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}

type GetPaymentRequest struct {
	PaymentId string `json:"payment_id"`
}

func (r *GetPaymentRequest) GetPaymentId() string { return r.PaymentId }

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	return &GetPaymentRequest{PaymentId: strings.TrimSpace(ctx.Param("payment_id"))}, nil
}

func (r *GetPaymentRequest) Validate() error {
	if strings.TrimSpace(r.PaymentId) == "" {
		return errors.New("payment_id is required")
	}
	return nil
}

type ListDeliveryLogsRequest struct {
	UserId string `json:"user_id"`
	Limit  int32  `json:"limit"`
}

func (r *ListDeliveryLogsRequest) GetUserId() string { return r.UserId }
func (r *ListDeliveryLogsRequest) GetLimit() int32   { return r.Limit }

func NewListDeliveryLogsRequestFromContext(ctx echo.Context) (*ListDeliveryLogsRequest, error) {
	limit, err := parseInt32Query(ctx, "limit", defaultLogsLimit)
	if err != nil {
		return nil, err
	}
	return &ListDeliveryLogsRequest{
		UserId: strings.TrimSpace(ctx.QueryParam("user_id")),
		Limit:  limit,
	}, nil
}

func (r *ListDeliveryLogsRequest) Validate() error {
	if strings.TrimSpace(r.UserId) == "" {
		return errors.New("user_id is required")
	}
	if r.Limit == 0 {
		r.Limit = defaultLogsLimit
	}
	if r.Limit < 0 || r.Limit > maxLogsLimit {
		return errors.New("limit must be between 1 and 100")
	}
	return nil
}

func parseInt32Query(ctx echo.Context, key string, fallback int32) (int32, error) {
	raw := strings.TrimSpace(ctx.QueryParam(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return int32(n), nil
}
