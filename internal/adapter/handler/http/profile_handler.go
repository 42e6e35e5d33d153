package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	usecase *usecase.ProfileUsecase
	logger  *zap.Logger
}

func NewProfileHandler(usecase *usecase.ProfileUsecase, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetMyProfile handles GET /api/v1/profiles/me
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	profile, err := h.usecase.GetProfile(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile handles PUT /api/v1/profiles/me
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	var input usecase.ProfileInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.usecase.UpsertProfile(c.Request().Context(), identity, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, profile)
}
