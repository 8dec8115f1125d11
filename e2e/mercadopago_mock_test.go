//go:build e2e
// +build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
)

// The service under test must run with MERCADOPAGO_API_BASE_URL pointing at this mock
// (http://<host>:38086) and a non-empty MERCADOPAGO_ACCESS_TOKEN.
const mercadoPagoMockAddr = "0.0.0.0:38086"

type mockPayment struct {
	Status        string
	Amount        float64
	PaymentMethod string
	Email         string
}

type mercadoPagoMock struct {
	mu       sync.Mutex
	payments map[string]mockPayment
}

var processorMock = &mercadoPagoMock{payments: map[string]mockPayment{}}

func (m *mercadoPagoMock) set(id string, payment mockPayment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[id] = payment
}

func (m *mercadoPagoMock) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, "/v1/payments/") {
		http.NotFound(w, r)
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/payments/")
	m.mu.Lock()
	payment, ok := m.payments[id]
	m.mu.Unlock()
	if !ok {
		http.Error(w, `{"message":"payment not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":                 id,
		"status":             payment.Status,
		"transaction_amount": payment.Amount,
		"payment_type_id":    payment.PaymentMethod,
		"payer":              map[string]any{"email": payment.Email},
	})
}

func startMercadoPagoMock() (*http.Server, error) {
	listener, err := net.Listen("tcp", mercadoPagoMockAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start mercadopago mock: %w", err)
	}
	server := &http.Server{Handler: processorMock}
	go func() {
		_ = server.Serve(listener)
	}()
	return server, nil
}
