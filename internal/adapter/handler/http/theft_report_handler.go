package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/smartrogo/safephoneng/internal/middleware/auth"
	"github.com/smartrogo/safephoneng/internal/usecase"
	apperrors "github.com/smartrogo/safephoneng/pkg/errors"
	"go.uber.org/zap"
)

type TheftReportHandler struct {
	ledger *usecase.TheftLedger
	logger *zap.Logger
}

func NewTheftReportHandler(ledger *usecase.TheftLedger, logger *zap.Logger) *TheftReportHandler {
	return &TheftReportHandler{
		ledger: ledger,
		logger: logger,
	}
}

// FileReportResponse is the created report. SyncPending is set when the report
// was stored but the device status could not be updated yet.
type FileReportResponse struct {
	*entity.TheftReport
	SyncPending bool   `json:"sync_pending"`
	Warning     string `json:"warning,omitempty"`
}

// FileReport handles POST /api/v1/theft-reports. Authentication is optional.
func (h *TheftReportHandler) FileReport(c echo.Context) error {
	var input usecase.FileReportInput
	if err := c.Bind(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.ledger.FileReport(c.Request().Context(), auth.GetIdentity(c), input)
	if err != nil {
		if report != nil && domainErrors.IsLedgerError(err, domainErrors.LedgerPartialFailure) {
			h.logger.Warn("Theft report accepted with pending status sync",
				zap.String("report_id", report.ID),
				zap.String("imei", report.IMEI),
				zap.Error(err))
			return c.JSON(http.StatusCreated, FileReportResponse{
				TheftReport: report,
				SyncPending: true,
				Warning:     apperrors.ErrPartialFailure,
			})
		}
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, FileReportResponse{TheftReport: report})
}

// ListByIMEI handles GET /api/v1/theft-reports?imei=
func (h *TheftReportHandler) ListByIMEI(c echo.Context) error {
	reports, err := h.ledger.ListByIMEI(c.Request().Context(), c.QueryParam("imei"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, reports)
}
