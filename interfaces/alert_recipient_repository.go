package interfaces

import (
	"context"

	"github.com/laundryos/washstack/internal/models"
)

type AlertRecipientRepository interface {
	ListActiveByLaundry(ctx context.Context, laundryID string) ([]*models.AlertRecipient, error)
	Create(ctx context.Context, recipient *models.AlertRecipient) (string, error)
}
