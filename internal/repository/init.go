package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/config"
	"github.com/laundryos/washstack/internal/models"
)

type Repositories struct {
	WebhookEventRepository      interfaces.WebhookEventRepository
	SmsAlertRepository          interfaces.SmsAlertRepository
	MaintenanceStatRepository   interfaces.MaintenanceStatRepository
	MaintenanceReportRepository interfaces.MaintenanceReportRepository
	AlertRecipientRepository    interfaces.AlertRecipientRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		WebhookEventRepository:      NewWebhookEventRepository(db),
		SmsAlertRepository:          NewSmsAlertRepository(db),
		MaintenanceStatRepository:   NewMaintenanceStatRepository(db),
		MaintenanceReportRepository: NewMaintenanceReportRepository(db),
		AlertRecipientRepository:    NewAlertRecipientRepository(db),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, gormDB *gorm.DB) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(5)

	err = gormDB.AutoMigrate(
		&models.WebhookEvent{},
		&models.SmsAlert{},
		&models.MaintenanceStat{},
		&models.MaintenanceReport{},
		&models.AlertRecipient{},
	)

	db.SetMaxIdleConns(dbConfig.MaxIdleConn)
	db.SetMaxOpenConns(dbConfig.MaxConn)
	db.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
