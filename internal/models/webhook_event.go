package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/utils"
)

// WebhookEvent is one unit of inbound work, persisted at creation and at
// every status transition. Rows are never deleted by the pipeline.
type WebhookEvent struct {
	ID        string           `gorm:"column:id;type:varchar(50);primaryKey"`
	Tenant    string           `gorm:"column:tenant;type:varchar(255);index"`
	Source    enum.EventSource `gorm:"column:source;type:varchar(50);index;not null"`
	EventType string           `gorm:"column:event_type;type:varchar(255);not null"`
	Data      JSONMap          `gorm:"column:data;type:jsonb"`

	Status     enum.EventStatus `gorm:"column:status;type:varchar(20);index;default:pending"`
	RetryCount int              `gorm:"column:retry_count;default:0"`
	Error      string           `gorm:"column:error;type:text"`

	// Denormalized keys for recurrence lookups and dashboard filters
	MachineID string `gorm:"column:machine_id;type:varchar(50);index"`
	LaundryID string `gorm:"column:laundry_id;type:varchar(50);index"`
	Category  string `gorm:"column:category;type:varchar(50);index"`

	ProcessedAt *time.Time `gorm:"column:processed_at;type:timestamp"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamp;default:current_timestamp;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}

func (e *WebhookEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("event", 24)
	}
	if e.Status == "" {
		e.Status = enum.EventStatusPending
	}
	e.CreatedAt = utils.Now()
	return nil
}
