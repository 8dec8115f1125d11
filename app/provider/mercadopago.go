package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	CodeMercadoPago = "mercadopago"

	defaultMercadoPagoBaseURL = "https://api.mercadopago.com"
)

var ErrUnexpectedPayment = errors.New("unexpected payment payload")

type MercadoPagoConfig struct {
	AccessToken string
	APIBaseURL  string
	HTTPTimeout time.Duration
}

type MercadoPagoProvider struct {
	cfg    MercadoPagoConfig
	client *http.Client
}

func NewMercadoPagoProvider(cfg MercadoPagoConfig) *MercadoPagoProvider {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultMercadoPagoBaseURL
	}

	return &MercadoPagoProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *MercadoPagoProvider) Code() string {
	return CodeMercadoPago
}

// GetPayment reads the payment back from the processor. Notification bodies are never
// trusted for payment fields.
func (p *MercadoPagoProvider) GetPayment(ctx context.Context, paymentID string) (*PaymentDetail, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: empty payment id", ErrUnexpectedPayment)
	}
	if strings.TrimSpace(p.cfg.AccessToken) == "" {
		return nil, errors.New("mercadopago access token is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.APIBaseURL+"/v1/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("mercadopago get payment failed: status=%d body=%s", resp.StatusCode, truncateBody(body, 512))
	}

	var payload struct {
		ID                json.RawMessage `json:"id"`
		Status            string          `json:"status"`
		TransactionAmount float64         `json:"transaction_amount"`
		PaymentTypeID     string          `json:"payment_type_id"`
		Payer             *struct {
			Email string `json:"email"`
		} `json:"payer"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedPayment, err)
	}

	id := ParseID(payload.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrUnexpectedPayment)
	}
	if payload.Payer == nil {
		return nil, fmt.Errorf("%w: missing payer", ErrUnexpectedPayment)
	}

	return &PaymentDetail{
		PaymentID:     id,
		Status:        strings.TrimSpace(payload.Status),
		Email:         strings.TrimSpace(payload.Payer.Email),
		Amount:        payload.TransactionAmount,
		PaymentMethod: strings.TrimSpace(payload.PaymentTypeID),
	}, nil
}

// ParseID accepts a JSON string or number and returns its text form.
func ParseID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	var n json.Number
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if decoder.Decode(&n) != nil {
		return ""
	}
	return n.String()
}

func truncateBody(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max])
}
