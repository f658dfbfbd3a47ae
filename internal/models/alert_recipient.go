package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/laundryos/washstack/internal/utils"
)

// AlertRecipient is a phone number subscribed to alerts for a laundry.
type AlertRecipient struct {
	ID          string    `gorm:"column:id;type:varchar(50);primaryKey"`
	LaundryID   string    `gorm:"column:laundry_id;type:varchar(50);index;not null"`
	Name        string    `gorm:"column:name;type:varchar(255)"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(30);not null"`
	Active      bool      `gorm:"column:active;default:true;index"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
}

func (AlertRecipient) TableName() string {
	return "alert_recipients"
}

func (r *AlertRecipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("recipient", 24)
	}
	r.CreatedAt = utils.Now()
	return nil
}
