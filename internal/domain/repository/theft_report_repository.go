package repository

import (
	"context"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
)

// TheftReportRepository is an append-only store of theft reports.
type TheftReportRepository interface {
	Create(ctx context.Context, report *entity.TheftReport) error

	// ListByIMEI returns the reports of imei, newest first.
	ListByIMEI(ctx context.Context, imei string) ([]*entity.TheftReport, error)

	ListAdmin(ctx context.Context, filter entity.AdminReportFilter) ([]*entity.TheftReport, int64, error)

	Count(ctx context.Context) (int64, error)
}
