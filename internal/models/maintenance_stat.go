package models

import "time"

// MaintenanceStat is the per-machine running aggregate updated by the
// payment source handler on successful intervention transactions.
type MaintenanceStat struct {
	MachineID          string     `gorm:"column:machine_id;type:varchar(50);primaryKey"`
	LaundryID          string     `gorm:"column:laundry_id;type:varchar(50);index"`
	TotalCost          float64    `gorm:"column:total_cost;default:0"`
	TotalInterventions int        `gorm:"column:total_interventions;default:0"`
	LastIntervention   *time.Time `gorm:"column:last_intervention;type:timestamp"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (MaintenanceStat) TableName() string {
	return "maintenance_stats"
}
