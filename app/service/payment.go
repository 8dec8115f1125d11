package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/entity"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/factory"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/metrics"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/provider"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/repository"
)

type notificationRequest interface {
	GetProvider() string
	GetPaymentId() string
}

type listPaymentsRequest interface {
	GetLimit() int32
	GetOffset() int32
}

type paymentRecordRepository interface {
	Upsert(ctx context.Context, item *entity.PaymentRecord) error
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.PaymentRecord, error)
	ListRecent(ctx context.Context, limit, offset int32) ([]*entity.PaymentRecord, error)
}

type accountRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	SetPremium(ctx context.Context, accountID string) error
}

type paymentDispatcher interface {
	Dispatch(ctx context.Context, userID, eventType string, data PaymentData) *DispatchResult
}

type notificationMetrics interface {
	IncNotification(result string)
}

type NotificationResult struct {
	Processed bool
	Record    *entity.PaymentRecord
	AccountID string
	EventType string
	Dispatch  *DispatchResult
}

type PaymentService struct {
	recordRepo  paymentRecordRepository
	accountRepo accountRepository
	providerReg *provider.Registry
	dispatcher  paymentDispatcher
	metrics     notificationMetrics
	now         func() time.Time
	logger      logrus.FieldLogger
}

func NewPaymentService(
	recordRepo paymentRecordRepository,
	accountRepo accountRepository,
	providerReg *provider.Registry,
	dispatcher paymentDispatcher,
	metrics notificationMetrics,
) *PaymentService {
	return &PaymentService{
		recordRepo:  recordRepo,
		accountRepo: accountRepo,
		providerReg: providerReg,
		dispatcher:  dispatcher,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      factory.NewModuleLogger("payment-service"),
	}
}

// HandleNotification processes one processor notification. Only the payment read-back and
// the record upsert can fail the call; entitlement and dispatch problems are logged.
func (s *PaymentService) HandleNotification(ctx context.Context, req notificationRequest) (*NotificationResult, error) {
	providerClient, err := s.providerReg.Get(req.GetProvider())
	if err != nil {
		if errors.Is(err, provider.ErrProviderNotSupported) {
			return nil, ErrProviderUnsupported
		}
		return nil, err
	}

	paymentID := strings.TrimSpace(req.GetPaymentId())
	if paymentID == "" {
		s.incNotification(metrics.NotificationIgnored)
		return &NotificationResult{Processed: false}, nil
	}

	l := s.logger.WithField("provider", providerClient.Code()).WithField("payment_id", paymentID)

	detail, err := providerClient.GetPayment(ctx, paymentID)
	if err != nil {
		s.incNotification(metrics.NotificationFailed)
		return nil, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}

	now := s.now()
	record := &entity.PaymentRecord{
		PaymentID:     detail.PaymentID,
		Email:         detail.Email,
		Status:        detail.Status,
		Amount:        detail.Amount,
		PaymentMethod: detail.PaymentMethod,
		ObservedAt:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		s.incNotification(metrics.NotificationFailed)
		return nil, fmt.Errorf("store payment %s: %w", detail.PaymentID, err)
	}

	result := &NotificationResult{
		Processed: true,
		Record:    record,
		EventType: EventTypeForStatus(detail.Status),
	}

	account, err := s.accountRepo.FindByEmail(ctx, detail.Email)
	if err != nil {
		l.WithError(err).Error("Account lookup failed")
		account = nil
	}

	if account != nil {
		result.AccountID = account.ID
		if isApproved(detail.Status) {
			if err := s.accountRepo.SetPremium(ctx, account.ID); err != nil {
				l.WithError(err).WithField("account_id", account.ID).Error("Entitlement update failed")
			}
		}

		result.Dispatch = s.dispatcher.Dispatch(ctx, account.ID, result.EventType, PaymentData{
			PaymentID:     detail.PaymentID,
			Email:         detail.Email,
			Amount:        detail.Amount,
			Status:        detail.Status,
			PaymentMethod: detail.PaymentMethod,
		})
	}

	s.incNotification(metrics.NotificationProcessed)
	l.WithField("status", detail.Status).WithField("event_type", result.EventType).Info("Payment notification processed")
	return result, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*entity.PaymentRecord, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrInvalidRequest
	}

	item, err := s.recordRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if item == nil {
		return nil, ErrPaymentNotFound
	}
	return item, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, req listPaymentsRequest) ([]*entity.PaymentRecord, error) {
	return s.recordRepo.ListRecent(ctx, req.GetLimit(), req.GetOffset())
}

// EventTypeForStatus maps a processor status onto the event type sent to subscribers.
func EventTypeForStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case entity.ProcessorStatusApproved:
		return entity.EventTypePaymentSuccess
	case entity.ProcessorStatusRejected, entity.ProcessorStatusCancelled:
		return entity.EventTypePaymentFailed
	default:
		return entity.EventTypePaymentPending
	}
}

func isApproved(status string) bool {
	return strings.ToLower(strings.TrimSpace(status)) == entity.ProcessorStatusApproved
}

func (s *PaymentService) incNotification(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncNotification(result)
}
