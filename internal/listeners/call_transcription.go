package listeners

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
	"github.com/laundryos/washstack/services/events"
)

// CallTranscriptionListener feeds calls arriving over the bus into the same
// processing queue the webhook boundary uses.
type CallTranscriptionListener struct {
	events.BaseEventListener
	queue interfaces.EventQueue
}

func NewCallTranscriptionListener(logger logger.Logger, queue interfaces.EventQueue) interfaces.EventListener {
	return &CallTranscriptionListener{
		BaseEventListener: events.NewBaseEventListener(
			logger,
			events.GetEventType[dto.CallTranscriptionReceived](), // subscribed event
			events.QueueWashstack,                                // listening on Direct queue
		),
		queue: queue,
	}
}

func (l *CallTranscriptionListener) Handle(ctx context.Context, baseEvent dto.Event) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "CallTranscriptionListener.Handle")
	defer span.Finish()
	tracing.SetDefaultListenerSpanTags(ctx, span)
	tracing.LogObjectAsJson(span, "event", baseEvent)

	if err := l.ValidateBaseEvent(ctx, baseEvent); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	received, err := events.DecodeEventData[dto.CallTranscriptionReceived](ctx, baseEvent)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	data, err := dto.EncodeEventData(received.CallTranscriptionPayload)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	_, err = l.queue.Enqueue(ctx, enum.SourceCallTranscription, received.Type, data, interfaces.EnqueueOptions{
		Tenant:    utils.GetTenantFromContext(ctx),
		MachineID: received.MachineID,
		LaundryID: received.LaundryID,
	})
	if err != nil {
		return errors.Wrap(err, "failed to enqueue bus call transcription")
	}

	return nil
}
