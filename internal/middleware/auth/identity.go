// Package auth resolves the caller of a request into an entity.Identity.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	apperrors "github.com/smartrogo/safephoneng/pkg/errors"
	"go.uber.org/zap"
)

// CookieName is the cookie the login flow stores the access token in.
const CookieName = "sb-access-token"

type contextKey string

const identityContextKey contextKey = "authenticated_identity"

// Config holds the configuration of the identity middleware.
type Config struct {
	Resolver service.IdentityResolver
	Logger   *zap.Logger
}

// ExtractCredential returns the bearer token of the request, falling back to
// the access token cookie. An Authorization header without the Bearer scheme
// yields the raw header so the resolver rejects it as invalid.
func ExtractCredential(c echo.Context) string {
	if header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)); header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			return strings.TrimSpace(header[7:])
		}
		return header
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// RequireIdentity rejects requests that do not carry a resolvable credential.
func RequireIdentity(config Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := config.Resolver.Resolve(c.Request().Context(), ExtractCredential(c))
			if err != nil {
				return reject(c, config.Logger, err)
			}
			setIdentity(c, identity)
			return next(c)
		}
	}
}

// OptionalIdentity lets anonymous requests through. A credential that is
// present but cannot be resolved is still rejected.
func OptionalIdentity(config Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := ExtractCredential(c)
			if credential == "" {
				return next(c)
			}
			identity, err := config.Resolver.Resolve(c.Request().Context(), credential)
			if err != nil {
				return reject(c, config.Logger, err)
			}
			setIdentity(c, identity)
			return next(c)
		}
	}
}

// GetIdentity returns the identity resolved for the request, or nil.
func GetIdentity(c echo.Context) *entity.Identity {
	identity, _ := c.Request().Context().Value(identityContextKey).(*entity.Identity)
	return identity
}

// IdentityFromContext returns the identity stored in ctx, or nil.
func IdentityFromContext(ctx context.Context) *entity.Identity {
	identity, _ := ctx.Value(identityContextKey).(*entity.Identity)
	return identity
}

func setIdentity(c echo.Context, identity *entity.Identity) {
	ctx := context.WithValue(c.Request().Context(), identityContextKey, identity)
	c.SetRequest(c.Request().WithContext(ctx))
	c.Set("user_id", identity.UserID)
}

// ToAppError converts an identity resolution failure into an AppError.
func ToAppError(err error) *apperrors.AppError {
	var authErr *domainErrors.AuthError
	if !errors.As(err, &authErr) {
		return apperrors.NewAppError(apperrors.ErrInternal, "Internal server error", err)
	}
	switch authErr.Kind {
	case domainErrors.AuthMissing:
		return apperrors.NewAppError(apperrors.ErrMissingCredential, "Authentication required", err)
	case domainErrors.AuthUnavailable:
		return apperrors.NewAppError(apperrors.ErrIdentityUnavailable, "Identity provider unavailable, retry later", err)
	default:
		return apperrors.NewAppError(apperrors.ErrInvalidCredential, "Invalid or expired credential", err)
	}
}

func reject(c echo.Context, logger *zap.Logger, err error) error {
	appErr := ToAppError(err)
	fields := []zap.Field{
		zap.String("path", c.Request().URL.Path),
		zap.String("method", c.Request().Method),
		zap.String("code", appErr.Code()),
		zap.Error(err),
	}
	if appErr.Code() == apperrors.ErrIdentityUnavailable || appErr.Code() == apperrors.ErrInternal {
		logger.Error("Identity resolution failed", fields...)
	} else {
		logger.Warn("Request rejected", fields...)
	}
	return apperrors.JSON(c, appErr)
}
