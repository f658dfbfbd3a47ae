package interfaces

import (
	"context"

	"github.com/laundryos/washstack/internal/enum"
)

// RecurrenceDetector reports whether a machine already exhibited the same
// problem category inside the lookback window. Store failures propagate; a
// silent false would suppress a legitimate escalation.
type RecurrenceDetector interface {
	IsRecurring(ctx context.Context, machineID string, category enum.CallCategory) (bool, error)
}
