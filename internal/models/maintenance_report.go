package models

import "time"

// MaintenanceReport mirrors the maintenance system's report, keyed by its id.
type MaintenanceReport struct {
	ID           string    `gorm:"column:id;type:varchar(100);primaryKey"`
	Type         string    `gorm:"column:type;type:varchar(100)"`
	Status       string    `gorm:"column:status;type:varchar(50);index"`
	TechnicianID string    `gorm:"column:technician_id;type:varchar(100);index"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (MaintenanceReport) TableName() string {
	return "maintenance_reports"
}
