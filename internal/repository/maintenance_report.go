package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
)

type maintenanceReportRepository struct {
	db *gorm.DB
}

func NewMaintenanceReportRepository(db *gorm.DB) interfaces.MaintenanceReportRepository {
	return &maintenanceReportRepository{
		db: db,
	}
}

func (r *maintenanceReportRepository) UpsertStatus(ctx context.Context, report *models.MaintenanceReport) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "maintenanceReportRepository.UpsertStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if report == nil || report.ID == "" {
		return ErrInvalidInput
	}

	report.UpdatedAt = utils.Now()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "status", "technician_id", "updated_at"}),
		}).
		Create(report).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
