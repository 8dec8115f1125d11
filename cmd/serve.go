package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	authclient "github.com/vibast-solutions/lib-go-auth/client"
	authmiddleware "github.com/vibast-solutions/lib-go-auth/middleware"
	authlibservice "github.com/vibast-solutions/lib-go-auth/service"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/auth"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/controller"
	webhookgrpc "github.com/vibast-solutions/ms-go-payment-webhooks/app/grpc"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/metrics"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
	"github.com/vibast-solutions/ms-go-payment-webhooks/config"
	"google.golang.org/grpc"
)

const generatedRequestIDKey = "request_id_generated"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start the HTTP (Echo) server for processor notifications and user webhooks, and the gRPC admin server.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type httpControllers struct {
	notification *controller.NotificationController
	webhook      *controller.WebhookController
	admin        *controller.AdminController
}

func runServe(_ *cobra.Command, _ []string) {
	app, cleanup := mustCreateApplication()
	defer cleanup()
	cfg := app.cfg

	controllers := &httpControllers{
		notification: controller.NewNotificationController(app.paymentService),
		webhook:      controller.NewWebhookController(app.testService, app.settingsService),
		admin:        controller.NewAdminController(app.paymentService, app.settingsService),
	}
	grpcAdminServer := webhookgrpc.NewServer(app.paymentService, app.settingsService)

	authGRPCClient, err := authclient.NewGRPCClientFromAddr(context.Background(), cfg.InternalEndpoints.AuthGRPCAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize auth gRPC client")
	}
	defer authGRPCClient.Close()

	internalAuthService := authlibservice.NewInternalAuthService(authGRPCClient)
	echoInternalAuthMiddleware := authmiddleware.NewEchoInternalAuthMiddleware(internalAuthService)
	grpcInternalAuthMiddleware := authmiddleware.NewGRPCInternalAuthMiddleware(internalAuthService)

	userMiddleware := auth.NewEchoUserMiddleware(auth.NewPlatformClient(auth.PlatformClientConfig{
		BaseURL:     cfg.Platform.AuthURL,
		AnonKey:     cfg.Platform.AnonKey,
		HTTPTimeout: cfg.Platform.HTTPTimeout,
	}))

	e := setupHTTPServer(controllers, userMiddleware, echoInternalAuthMiddleware, metrics.Handler(app.registry), cfg.App.ServiceName)
	grpcSrv, lis := setupGRPCServer(cfg, grpcAdminServer, grpcInternalAuthMiddleware, cfg.App.ServiceName)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	controllers *httpControllers,
	userMiddleware *auth.EchoUserMiddleware,
	internalAuthMiddleware *authmiddleware.EchoInternalAuthMiddleware,
	metricsHandler http.Handler,
	appServiceName string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(ensureRequestID())

	e.GET("/health", controllers.notification.Health)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	e.POST("/webhooks/providers/:provider", controllers.notification.HandleNotification, echomiddleware.BodyLimit("64K"))

	webhooks := e.Group("/webhooks", userMiddleware.RequireUser())
	webhooks.POST("/test", controllers.webhook.TestWebhook)
	webhooks.GET("/settings", controllers.webhook.GetSettings)
	webhooks.PUT("/settings", controllers.webhook.UpsertSettings)
	webhooks.GET("/logs", controllers.webhook.ListLogs)

	admin := e.Group("/admin", requireRequestID(), internalAuthMiddleware.RequireInternalAccess(appServiceName))
	admin.GET("/payments", controllers.admin.ListPayments)
	admin.GET("/payments/:payment_id", controllers.admin.GetPayment)
	admin.GET("/delivery-logs", controllers.admin.ListDeliveryLogs)

	return e
}

// ensureRequestID echoes the caller's X-Request-ID or assigns a new one.
func ensureRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if requestID == "" {
				requestID = uuid.NewString()
				ctx.Request().Header.Set(echo.HeaderXRequestID, requestID)
				ctx.Set(generatedRequestIDKey, true)
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(ctx)
		}
	}
}

// requireRequestID rejects requests that arrived without their own X-Request-ID.
func requireRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if ctx.Get(generatedRequestIDKey) == true {
				return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: "x-request-id header is required"})
			}
			return next(ctx)
		}
	}
}

func setupGRPCServer(
	cfg *config.Config,
	adminServer *webhookgrpc.Server,
	internalAuthMiddleware *authmiddleware.GRPCInternalAuthMiddleware,
	appServiceName string,
) (*grpc.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := grpc.NewServer(
		grpc.ForceServerCodec(webhookgrpc.JSONCodec{}),
		grpc.ChainUnaryInterceptor(
			webhookgrpc.RecoveryInterceptor(),
			webhookgrpc.RequestIDInterceptor(),
			webhookgrpc.LoggingInterceptor(),
			internalAuthMiddleware.UnaryRequireInternalAccess(appServiceName),
		),
	)
	webhookgrpc.RegisterAdminServiceServer(grpcSrv, adminServer)

	return grpcSrv, lis
}
