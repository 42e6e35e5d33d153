package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"go.uber.org/zap"
)

type DeviceHandler struct {
	registry *usecase.DeviceRegistry
	logger   *zap.Logger
}

func NewDeviceHandler(registry *usecase.DeviceRegistry, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		registry: registry,
		logger:   logger,
	}
}

// UpdateStatusRequest is the body of PATCH /devices/:imei/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RegisterDevice handles POST /api/v1/devices
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	device, err := h.registry.Register(c.Request().Context(), identity, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, device)
}

// ListMyDevices handles GET /api/v1/devices/mine
func (h *DeviceHandler) ListMyDevices(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	devices, err := h.registry.ListByOwner(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, devices)
}

// UpdateStatus handles PATCH /api/v1/devices/:imei/status
func (h *DeviceHandler) UpdateStatus(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	device, err := h.registry.UpdateStatus(c.Request().Context(), identity, c.Param("imei"), entity.DeviceStatus(req.Status))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, device)
}
