package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
)

type smsAlertRepository struct {
	db *gorm.DB
}

func NewSmsAlertRepository(db *gorm.DB) interfaces.SmsAlertRepository {
	return &smsAlertRepository{
		db: db,
	}
}

func (r *smsAlertRepository) Create(ctx context.Context, alert *models.SmsAlert) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "smsAlertRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEvent(span, alert.EventID)

	if alert == nil {
		return "", ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Create(alert)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return alert.ID, nil
}

func (r *smsAlertRepository) ExistsForEvent(ctx context.Context, eventID string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "smsAlertRepository.ExistsForEvent")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEvent(span, eventID)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SmsAlert{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}

	return count > 0, nil
}

func (r *smsAlertRepository) ListRecent(ctx context.Context, limit int) ([]*models.SmsAlert, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "smsAlertRepository.ListRecent")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var alerts []*models.SmsAlert
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return alerts, nil
}
