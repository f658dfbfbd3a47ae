package repository

import (
	"context"
	"errors"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
)

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) interfaces.WebhookEventRepository {
	return &webhookEventRepository{
		db: db,
	}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *models.WebhookEvent) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "webhookEventRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if event == nil {
		return "", ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return event.ID, nil
}

func (r *webhookEventRepository) Update(ctx context.Context, event *models.WebhookEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "webhookEventRepository.Update")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEvent(span, event.ID)

	event.UpdatedAt = utils.Now()

	result := r.db.WithContext(ctx).Save(event)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}

func (r *webhookEventRepository) GetByID(ctx context.Context, id string) (*models.WebhookEvent, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "webhookEventRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagEvent(span, id)

	var event models.WebhookEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &event, nil
}

func (r *webhookEventRepository) CountRecentByMachineAndCategory(ctx context.Context, machineID string, category enum.CallCategory, since time.Time) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "webhookEventRepository.CountRecentByMachineAndCategory")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagMachine(span, machineID)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WebhookEvent{}).
		Where("machine_id = ? AND category = ? AND created_at >= ?", machineID, category.String(), since).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, err
	}

	return count, nil
}

func (r *webhookEventRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.WebhookEvent, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "webhookEventRepository.ListPendingOlderThan")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var events []*models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enum.EventStatusPending.String(), cutoff).
		Order("created_at asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return events, nil
}

func (r *webhookEventRepository) ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "webhookEventRepository.ListRecent")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var events []*models.WebhookEvent
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return events, nil
}
