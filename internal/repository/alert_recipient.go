package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
)

type alertRecipientRepository struct {
	db *gorm.DB
}

func NewAlertRecipientRepository(db *gorm.DB) interfaces.AlertRecipientRepository {
	return &alertRecipientRepository{
		db: db,
	}
}

func (r *alertRecipientRepository) ListActiveByLaundry(ctx context.Context, laundryID string) ([]*models.AlertRecipient, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "alertRecipientRepository.ListActiveByLaundry")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var recipients []*models.AlertRecipient
	err := r.db.WithContext(ctx).
		Where("laundry_id = ? AND active = ?", laundryID, true).
		Order("created_at asc").
		Find(&recipients).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return recipients, nil
}

func (r *alertRecipientRepository) Create(ctx context.Context, recipient *models.AlertRecipient) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "alertRecipientRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if recipient == nil || recipient.PhoneNumber == "" {
		return "", ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Create(recipient)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return recipient.ID, nil
}
