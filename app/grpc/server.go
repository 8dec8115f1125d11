package grpc

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/mapper"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/service"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements the admin API over gRPC.
type Server struct {
	paymentService  *service.PaymentService
	settingsService *service.WebhookSettingsService
}

var _ AdminServiceServer = (*Server)(nil)

func NewServer(paymentService *service.PaymentService, settingsService *service.WebhookSettingsService) *Server {
	return &Server{
		paymentService:  paymentService,
		settingsService: settingsService,
	}
}

func (s *Server) Health(_ context.Context, _ *types.HealthRequest) (*types.HealthResponse, error) {
	return &types.HealthResponse{Status: "ok"}, nil
}

func (s *Server) ListPayments(ctx context.Context, req *types.ListPaymentsRequest) (*types.ListPaymentsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := s.paymentService.ListPayments(ctx, req)
	if err != nil {
		loggerWithContext(ctx).WithError(err).Error("List payments failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return &types.ListPaymentsResponse{Payments: mapper.PaymentRecordsToResponse(items)}, nil
}

func (s *Server) GetPayment(ctx context.Context, req *types.GetPaymentRequest) (*types.PaymentEnvelopeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.paymentService.GetPayment(ctx, req.GetPaymentId())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			return nil, status.Error(codes.NotFound, "payment not found")
		case errors.Is(err, service.ErrInvalidRequest):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		default:
			loggerWithContext(ctx).WithError(err).Error("Get payment failed")
			return nil, status.Error(codes.Internal, "internal server error")
		}
	}

	return &types.PaymentEnvelopeResponse{Payment: mapper.PaymentRecordToResponse(item)}, nil
}

func (s *Server) ListDeliveryLogs(ctx context.Context, req *types.ListDeliveryLogsRequest) (*types.ListDeliveryLogsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	items, err := s.settingsService.ListDeliveryLogs(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		loggerWithContext(ctx).WithError(err).Error("List delivery logs failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return &types.ListDeliveryLogsResponse{Logs: mapper.DeliveryLogsToResponse(items)}, nil
}
