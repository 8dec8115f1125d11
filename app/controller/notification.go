package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/factory"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/service"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
)

type NotificationController struct {
	paymentService *service.PaymentService
	logger         logrus.FieldLogger
}

func NewNotificationController(paymentService *service.PaymentService) *NotificationController {
	return &NotificationController{
		paymentService: paymentService,
		logger:         factory.NewModuleLogger("notification-controller"),
	}
}

func (c *NotificationController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// HandleNotification acknowledges processor notifications. Only a failed payment read-back
// or record write is reported as 500 so the processor retries.
func (c *NotificationController) HandleNotification(ctx echo.Context) error {
	req, err := types.NewNotificationRequestFromContext(ctx)
	if err != nil {
		if errors.Is(err, types.ErrBodyTooLarge) {
			return writeError(ctx, http.StatusRequestEntityTooLarge, err.Error())
		}
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.paymentService.HandleNotification(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProviderUnsupported) {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle payment notification failed")
		return writeError(ctx, http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, &types.NotificationResponse{Ok: result.Processed})
}

func writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
