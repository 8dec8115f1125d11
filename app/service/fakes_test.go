package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/provider"
	"github.com/vibast-solutions/ms-go-payment-webhooks/config"
)

type servicePaymentRecordRepo struct {
	items     map[string]*entity.PaymentRecord
	upserts   int
	upsertErr error
}

func newServicePaymentRecordRepo() *servicePaymentRecordRepo {
	return &servicePaymentRecordRepo{items: map[string]*entity.PaymentRecord{}}
}

func (r *servicePaymentRecordRepo) Upsert(_ context.Context, item *entity.PaymentRecord) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts++
	copyItem := *item
	if existing, ok := r.items[item.PaymentID]; ok {
		copyItem.ID = existing.ID
		copyItem.CreatedAt = existing.CreatedAt
	} else {
		copyItem.ID = uint64(len(r.items) + 1)
	}
	r.items[item.PaymentID] = &copyItem
	return nil
}

func (r *servicePaymentRecordRepo) FindByPaymentID(_ context.Context, paymentID string) (*entity.PaymentRecord, error) {
	item, ok := r.items[paymentID]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *servicePaymentRecordRepo) ListRecent(_ context.Context, limit, offset int32) ([]*entity.PaymentRecord, error) {
	result := make([]*entity.PaymentRecord, 0, len(r.items))
	for _, item := range r.items {
		copyItem := *item
		result = append(result, &copyItem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if int(offset) >= len(result) {
		return []*entity.PaymentRecord{}, nil
	}
	result = result[offset:]
	if limit > 0 && int(limit) < len(result) {
		result = result[:limit]
	}
	return result, nil
}

type serviceAccountRepo struct {
	accounts   map[string]*entity.Account
	findErr    error
	premiumErr error
	premiumSet []string
}

func newServiceAccountRepo(accounts ...*entity.Account) *serviceAccountRepo {
	repo := &serviceAccountRepo{accounts: map[string]*entity.Account{}}
	for _, account := range accounts {
		repo.accounts[account.Email] = account
	}
	return repo
}

func (r *serviceAccountRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if email == "" {
		return nil, nil
	}
	item, ok := r.accounts[email]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *serviceAccountRepo) SetPremium(_ context.Context, accountID string) error {
	if r.premiumErr != nil {
		return r.premiumErr
	}
	for _, account := range r.accounts {
		if account.ID == accountID {
			account.IsPremium = true
			r.premiumSet = append(r.premiumSet, accountID)
			return nil
		}
	}
	return errors.New("account not found")
}

type serviceSubscriptionRepo struct {
	items   map[string]*entity.WebhookSubscription
	findErr error
}

func newServiceSubscriptionRepo(items ...*entity.WebhookSubscription) *serviceSubscriptionRepo {
	repo := &serviceSubscriptionRepo{items: map[string]*entity.WebhookSubscription{}}
	for _, item := range items {
		repo.items[item.UserID] = item
	}
	return repo
}

func (r *serviceSubscriptionRepo) FindByUserID(_ context.Context, userID string) (*entity.WebhookSubscription, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	item, ok := r.items[userID]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *serviceSubscriptionRepo) Upsert(_ context.Context, item *entity.WebhookSubscription) error {
	copyItem := *item
	if existing, ok := r.items[item.UserID]; ok {
		copyItem.ID = existing.ID
		copyItem.CreatedAt = existing.CreatedAt
	} else {
		copyItem.ID = uint64(len(r.items) + 1)
	}
	r.items[item.UserID] = &copyItem
	return nil
}

type serviceDeliveryLogRepo struct {
	mu        sync.Mutex
	items     []*entity.DeliveryLog
	createErr error
}

func (r *serviceDeliveryLogRepo) Create(_ context.Context, item *entity.DeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	item.ID = uint64(len(r.items) + 1)
	copyItem := *item
	r.items = append(r.items, &copyItem)
	return nil
}

func (r *serviceDeliveryLogRepo) ListByUser(_ context.Context, userID string, limit int32) ([]*entity.DeliveryLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.DeliveryLog, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID != userID {
			continue
		}
		copyItem := *r.items[i]
		result = append(result, &copyItem)
		if limit > 0 && int32(len(result)) >= limit {
			break
		}
	}
	return result, nil
}

func (r *serviceDeliveryLogRepo) all() []*entity.DeliveryLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.DeliveryLog(nil), r.items...)
}

type fakeProvider struct {
	payments map[string]*provider.PaymentDetail
	err      error
	calls    int
}

func (p *fakeProvider) Code() string {
	return provider.CodeMercadoPago
}

func (p *fakeProvider) GetPayment(_ context.Context, paymentID string) (*provider.PaymentDetail, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	item, ok := p.payments[paymentID]
	if !ok {
		return nil, errors.New("payment not found at processor")
	}
	copyItem := *item
	return &copyItem, nil
}

type countingLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.hits == nil {
		l.hits = map[string]int{}
	}
	l.hits[key]++
	return l.hits[key] <= l.limit, nil
}

type testWebhookReq struct {
	url string
}

func (r testWebhookReq) GetWebhookUrl() string { return r.url }

func newTestDispatcher(subs *serviceSubscriptionRepo, logs *serviceDeliveryLogRepo) *WebhookDispatcher {
	return NewWebhookDispatcher(subs, logs, nil, config.WebhooksConfig{})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
