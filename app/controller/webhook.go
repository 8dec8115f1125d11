package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/auth"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/factory"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/mapper"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/service"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
)

// WebhookController serves the signed-in user's webhook settings, logs and test sends.
type WebhookController struct {
	testService     *service.WebhookTestService
	settingsService *service.WebhookSettingsService
	logger          logrus.FieldLogger
}

func NewWebhookController(testService *service.WebhookTestService, settingsService *service.WebhookSettingsService) *WebhookController {
	return &WebhookController{
		testService:     testService,
		settingsService: settingsService,
		logger:          factory.NewModuleLogger("webhook-controller"),
	}
}

func (c *WebhookController) TestWebhook(ctx echo.Context) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return writeError(ctx, http.StatusUnauthorized, "unauthorized")
	}

	req, err := types.NewTestWebhookRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.testService.SendTest(ctx.Request().Context(), user.ID, user.Email, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, "webhook_url is required")
		case errors.Is(err, service.ErrUnauthorized):
			return writeError(ctx, http.StatusUnauthorized, "unauthorized")
		case errors.Is(err, service.ErrRateLimited):
			return writeError(ctx, http.StatusTooManyRequests, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Warn("Webhook test failed")
			return writeError(ctx, http.StatusInternalServerError, err.Error())
		}
	}

	return ctx.JSON(http.StatusOK, &types.TestWebhookResponse{
		Success:         result.Success,
		StatusCode:      result.StatusCode,
		ResponsePreview: result.ResponsePreview,
	})
}

func (c *WebhookController) GetSettings(ctx echo.Context) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return writeError(ctx, http.StatusUnauthorized, "unauthorized")
	}

	item, err := c.settingsService.GetSettings(ctx.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrSettingsNotFound) {
			return writeError(ctx, http.StatusNotFound, err.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get webhook settings failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.WebhookSettingsResponse{Settings: mapper.WebhookSubscriptionToResponse(item)})
}

func (c *WebhookController) UpsertSettings(ctx echo.Context) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return writeError(ctx, http.StatusUnauthorized, "unauthorized")
	}

	req, err := types.NewUpsertWebhookSettingsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.settingsService.UpsertSettings(ctx.Request().Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return writeError(ctx, http.StatusBadRequest, err.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Save webhook settings failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.WebhookSettingsResponse{Settings: mapper.WebhookSubscriptionToResponse(item)})
}

func (c *WebhookController) ListLogs(ctx echo.Context) error {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return writeError(ctx, http.StatusUnauthorized, "unauthorized")
	}

	req, err := types.NewListUserLogsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.settingsService.ListDeliveryLogs(ctx.Request().Context(), &types.ListDeliveryLogsRequest{
		UserId: user.ID,
		Limit:  req.GetLimit(),
	})
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List delivery logs failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListDeliveryLogsResponse{Logs: mapper.DeliveryLogsToResponse(items)})
}
