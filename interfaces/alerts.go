package interfaces

import (
	"context"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/internal/models"
)

// AlertRequest is everything the dispatcher needs to compose and fan out
// one alert for one classified event.
type AlertRequest struct {
	EventID        string
	Tenant         string
	MachineID      string
	MachineLabel   string
	LaundryID      string
	LaundryAddress string
	Classification *dto.CallClassification
	IsRecurring    bool
}

// AlertDispatcher fans a rendered alert out to the laundry's active
// recipients and records the outcome. Returns (nil, nil) when the
// classification does not warrant an alert.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, request AlertRequest) (*models.SmsAlert, error)
}
