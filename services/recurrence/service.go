package recurrence

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
)

const DefaultLookbackWindow = 24 * time.Hour

type recurrenceService struct {
	eventRepository interfaces.WebhookEventRepository
	lookbackWindow  time.Duration
}

func NewRecurrenceService(eventRepository interfaces.WebhookEventRepository, lookbackWindow time.Duration) interfaces.RecurrenceDetector {
	if lookbackWindow <= 0 {
		lookbackWindow = DefaultLookbackWindow
	}
	return &recurrenceService{
		eventRepository: eventRepository,
		lookbackWindow:  lookbackWindow,
	}
}

// IsRecurring counts stored events for the machine and category inside the
// window. The row for the event being handled is already persisted, so a
// count above one means this is not the first occurrence.
func (s *recurrenceService) IsRecurring(ctx context.Context, machineID string, category enum.CallCategory) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recurrenceService.IsRecurring")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMachine(span, machineID)
	span.SetTag("category", category.String())

	since := utils.Now().Add(-s.lookbackWindow)

	count, err := s.eventRepository.CountRecentByMachineAndCategory(ctx, machineID, category, since)
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}

	span.LogKV("matching_events", count)
	return count > 1, nil
}
