package interfaces

import (
	"context"

	"github.com/laundryos/washstack/internal/models"
)

type SmsAlertRepository interface {
	Create(ctx context.Context, alert *models.SmsAlert) (string, error)
	ExistsForEvent(ctx context.Context, eventID string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]*models.SmsAlert, error)
}
