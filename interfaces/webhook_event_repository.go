package interfaces

import (
	"context"
	"time"

	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/models"
)

type WebhookEventRepository interface {
	Create(ctx context.Context, event *models.WebhookEvent) (string, error)
	Update(ctx context.Context, event *models.WebhookEvent) error
	GetByID(ctx context.Context, id string) (*models.WebhookEvent, error)

	// CountRecentByMachineAndCategory counts events for the same machine and
	// category created after `since`, feeding the recurrence detector.
	CountRecentByMachineAndCategory(ctx context.Context, machineID string, category enum.CallCategory, since time.Time) (int64, error)

	// ListPendingOlderThan returns pending rows created before the cutoff,
	// used by the stuck-event recovery sweep.
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.WebhookEvent, error)

	ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error)
}
