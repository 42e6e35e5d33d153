package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"go.uber.org/zap"
)

type VerificationHandler struct {
	service *usecase.VerificationService
	logger  *zap.Logger
}

func NewVerificationHandler(service *usecase.VerificationService, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		service: service,
		logger:  logger,
	}
}

// Verify handles GET /api/v1/verify/:imei. An unknown IMEI is a successful
// lookup answered with found=false.
func (h *VerificationHandler) Verify(c echo.Context) error {
	result, err := h.service.Verify(c.Request().Context(), c.Param("imei"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}
