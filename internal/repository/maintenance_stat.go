package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
)

type maintenanceStatRepository struct {
	db *gorm.DB
}

func NewMaintenanceStatRepository(db *gorm.DB) interfaces.MaintenanceStatRepository {
	return &maintenanceStatRepository{
		db: db,
	}
}

func (r *maintenanceStatRepository) RecordIntervention(ctx context.Context, machineID, laundryID string, cost float64, at time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "maintenanceStatRepository.RecordIntervention")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagMachine(span, machineID)

	if machineID == "" {
		return ErrInvalidInput
	}

	stat := models.MaintenanceStat{
		MachineID:          machineID,
		LaundryID:          laundryID,
		TotalCost:          cost,
		TotalInterventions: 1,
		LastIntervention:   &at,
		UpdatedAt:          utils.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "machine_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_cost":          gorm.Expr("maintenance_stats.total_cost + ?", cost),
				"total_interventions": gorm.Expr("maintenance_stats.total_interventions + 1"),
				"last_intervention":   at,
				"updated_at":          utils.Now(),
			}),
		}).
		Create(&stat).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (r *maintenanceStatRepository) GetByMachine(ctx context.Context, machineID string) (*models.MaintenanceStat, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "maintenanceStatRepository.GetByMachine")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagMachine(span, machineID)

	var stat models.MaintenanceStat
	if err := r.db.WithContext(ctx).Where("machine_id = ?", machineID).First(&stat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &stat, nil
}
