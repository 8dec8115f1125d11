package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/factory"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
)

const userContextKey = "auth_user"

type userResolver interface {
	GetUser(ctx context.Context, token string) (*User, error)
}

type EchoUserMiddleware struct {
	resolver userResolver
}

func NewEchoUserMiddleware(resolver userResolver) *EchoUserMiddleware {
	return &EchoUserMiddleware{resolver: resolver}
}

func (m *EchoUserMiddleware) RequireUser() echo.MiddlewareFunc {
	logger := factory.NewModuleLogger("user-auth")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := BearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "unauthorized"})
			}

			user, err := m.resolver.GetUser(ctx.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrMissingToken) {
					factory.LoggerWithContext(logger, ctx).WithError(err).Warn("Platform user lookup failed")
				}
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "user not authenticated"})
			}

			SetUser(ctx, user)
			return next(ctx)
		}
	}
}

func SetUser(ctx echo.Context, user *User) {
	ctx.Set(userContextKey, user)
}

func UserFromContext(ctx echo.Context) (*User, bool) {
	user, ok := ctx.Get(userContextKey).(*User)
	return user, ok && user != nil
}
