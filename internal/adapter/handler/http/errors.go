package http

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/smartrogo/safephoneng/internal/middleware/auth"
	apperrors "github.com/smartrogo/safephoneng/pkg/errors"
	"go.uber.org/zap"
)

// toAppError maps domain errors onto the public error codes.
func toAppError(err error) *apperrors.AppError {
	var (
		regErr    *domainErrors.RegistryError
		ledgerErr *domainErrors.LedgerError
		authErr   *domainErrors.AuthError
		appErr    *apperrors.AppError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &regErr):
		switch regErr.Kind {
		case domainErrors.RegistryInvalid:
			return apperrors.NewAppError(apperrors.ErrInvalidArgument, regErr.Message, err)
		case domainErrors.RegistryDuplicateIMEI:
			return apperrors.NewAppError(apperrors.ErrDuplicateIMEI, regErr.Message, err)
		case domainErrors.RegistryForbidden:
			return apperrors.NewAppError(apperrors.ErrForbidden, regErr.Message, err)
		case domainErrors.RegistryNotFound:
			return apperrors.NewAppError(apperrors.ErrNotFound, regErr.Message, err)
		}
	case errors.As(err, &ledgerErr) && ledgerErr.Kind == domainErrors.LedgerInvalid:
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, ledgerErr.Message, err)
	case errors.As(err, &authErr):
		return auth.ToAppError(err)
	case errors.Is(err, domainErrors.ErrProfileNotFound):
		return apperrors.NewAppError(apperrors.ErrNotFound, "Profile not found", err)
	case errors.Is(err, domainErrors.ErrAdminRequired):
		return apperrors.NewAppError(apperrors.ErrForbidden, "Admin access required", err)
	}
	return apperrors.NewAppError(apperrors.ErrInternal, "Internal server error", err)
}

// respondError writes err with the shared error body. Internal errors are
// logged with the request context, client errors only at debug.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	appErr := toAppError(err)
	if appErr.Code() == apperrors.ErrInternal {
		apperrors.LogError(logger, err, "Request failed",
			zap.String("path", c.Request().URL.Path),
			zap.String("method", c.Request().Method))
	} else {
		logger.Debug("Request rejected",
			zap.String("path", c.Request().URL.Path),
			zap.String("code", appErr.Code()),
			zap.Error(err))
	}
	return apperrors.JSON(c, appErr)
}

func badRequest(c echo.Context, message string) error {
	return apperrors.JSON(c, apperrors.NewAppError(apperrors.ErrInvalidArgument, message, nil))
}

// requireIdentity returns the caller or writes a missing credential response.
// The second return is the response error to hand back to echo.
func requireIdentity(c echo.Context) (*entity.Identity, error) {
	identity := auth.GetIdentity(c)
	if identity == nil {
		return nil, apperrors.JSON(c, apperrors.NewAppError(apperrors.ErrMissingCredential, "Authentication required", nil))
	}
	return identity, nil
}
