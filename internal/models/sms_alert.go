package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/utils"
)

// SmsAlert is one fan-out record per alerted event. The unique index on
// event_id enforces at-most-once dispatch per WebhookEvent.
type SmsAlert struct {
	ID          string         `gorm:"column:id;type:varchar(50);primaryKey"`
	EventID     string         `gorm:"column:event_id;type:varchar(50);uniqueIndex;not null"`
	MachineID   string         `gorm:"column:machine_id;type:varchar(50);index"`
	LaundryID   string         `gorm:"column:laundry_id;type:varchar(50);index"`
	AlertType   enum.AlertType `gorm:"column:alert_type;type:varchar(50);not null"`
	Message     string         `gorm:"column:message;type:text;not null"`
	Recipients  pq.StringArray `gorm:"column:recipients;type:text[]"`
	IsRecurring bool           `gorm:"column:is_recurring;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:current_timestamp;index"`
}

func (SmsAlert) TableName() string {
	return "sms_alerts_history"
}

func (a *SmsAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.GenerateNanoIDWithPrefix("alert", 24)
	}
	a.CreatedAt = utils.Now()
	return nil
}
