package repository

import (
	"context"
	"fmt"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	"github.com/smartrogo/safephoneng/internal/domain/model"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"gorm.io/gorm"
)

type theftReportRepository struct {
	db *gorm.DB
}

// NewTheftReportRepository creates a GORM backed theft report repository.
func NewTheftReportRepository(db *gorm.DB) domainRepo.TheftReportRepository {
	return &theftReportRepository{db: db}
}

func (r *theftReportRepository) Create(ctx context.Context, report *entity.TheftReport) error {
	row, err := reportEntityToModel(report)
	if err != nil {
		return fmt.Errorf("invalid theft report: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create theft report: %w", err)
	}
	return nil
}

func (r *theftReportRepository) ListByIMEI(ctx context.Context, imei string) ([]*entity.TheftReport, error) {
	var rows []model.TheftReport
	err := r.db.WithContext(ctx).
		Where("imei_number = ?", imei).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list theft reports: %w", err)
	}
	return reportsToEntities(rows), nil
}

func (r *theftReportRepository) ListAdmin(ctx context.Context, filter entity.AdminReportFilter) ([]*entity.TheftReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.TheftReport{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(imei_number) LIKE ? OR LOWER(COALESCE(reporter_name, '')) LIKE ? OR LOWER(location) LIKE ?",
			pattern, pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count theft reports: %w", err)
	}

	var rows []model.TheftReport
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.CalculateOffset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list theft reports: %w", err)
	}
	return reportsToEntities(rows), total, nil
}

func (r *theftReportRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.TheftReport{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count theft reports: %w", err)
	}
	return total, nil
}

func reportsToEntities(rows []model.TheftReport) []*entity.TheftReport {
	result := make([]*entity.TheftReport, 0, len(rows))
	for i := range rows {
		result = append(result, reportModelToEntity(&rows[i]))
	}
	return result
}
