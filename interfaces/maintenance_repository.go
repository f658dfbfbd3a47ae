package interfaces

import (
	"context"
	"time"

	"github.com/laundryos/washstack/internal/models"
)

type MaintenanceStatRepository interface {
	// RecordIntervention increments the per-machine aggregate by one
	// intervention of the given cost.
	RecordIntervention(ctx context.Context, machineID, laundryID string, cost float64, at time.Time) error
	GetByMachine(ctx context.Context, machineID string) (*models.MaintenanceStat, error)
}

type MaintenanceReportRepository interface {
	UpsertStatus(ctx context.Context, report *models.MaintenanceReport) error
}
