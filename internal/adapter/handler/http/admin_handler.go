package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/smartrogo/safephoneng/internal/usecase"
	"go.uber.org/zap"
)

type AdminHandler struct {
	usecase *usecase.AdminUsecase
	logger  *zap.Logger
}

func NewAdminHandler(usecase *usecase.AdminUsecase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func bindPagination(c echo.Context, p *entity.PaginationParams, search *string) error {
	return echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		String("q", search).
		BindError()
}

// ListDevices handles GET /api/v1/admin/devices
func (h *AdminHandler) ListDevices(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	var filter entity.AdminDeviceFilter
	if err := bindPagination(c, &filter.PaginationParams, &filter.Search); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	filter.Status = entity.DeviceStatus(c.QueryParam("status"))

	page, err := h.usecase.ListDevices(c.Request().Context(), identity, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListReports handles GET /api/v1/admin/theft-reports
func (h *AdminHandler) ListReports(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	var filter entity.AdminReportFilter
	if err := bindPagination(c, &filter.PaginationParams, &filter.Search); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	page, err := h.usecase.ListReports(c.Request().Context(), identity, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	stats, err := h.usecase.Stats(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Reconcile handles POST /api/v1/admin/reconcile
func (h *AdminHandler) Reconcile(c echo.Context) error {
	identity, resp := requireIdentity(c)
	if identity == nil {
		return resp
	}

	result, err := h.usecase.Reconcile(c.Request().Context(), identity)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("Reconcile triggered by admin",
		zap.String("user_id", identity.UserID),
		zap.Int("repaired", len(result.Repaired)))
	return c.JSON(http.StatusOK, result)
}
