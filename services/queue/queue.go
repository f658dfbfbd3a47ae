package queue

import (
	"context"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	washstack_errors "github.com/laundryos/washstack/internal/errors"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
)

type Config struct {
	// MaxAttempts per source; a source missing from the map gets DefaultMaxAttempts.
	MaxAttempts map[enum.EventSource]int

	BackoffMin time.Duration
	BackoffMax time.Duration

	// Capacity bounds the worker inbox. A full inbox leaves the event
	// pending in the store for the recovery sweep rather than blocking the
	// webhook receiver.
	Capacity int
}

const DefaultMaxAttempts = 3

// eventQueue drives every enqueued event to a terminal status. A single
// worker goroutine owns consumption, so no two handlers ever process the
// same event concurrently; Enqueue only persists and hands off.
type eventQueue struct {
	cfg       Config
	log       logger.Logger
	eventRepo interfaces.WebhookEventRepository
	handlers  map[enum.EventSource]interfaces.SourceHandler

	inbox chan *models.WebhookEvent

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	timers  map[string]*time.Timer
}

func NewEventQueue(
	cfg Config,
	log logger.Logger,
	eventRepo interfaces.WebhookEventRepository,
	handlers []interfaces.SourceHandler,
) interfaces.EventQueue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}
	if cfg.BackoffMin <= 0 {
		cfg.BackoffMin = 500 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 30 * time.Second
	}

	handlerMap := make(map[enum.EventSource]interfaces.SourceHandler, len(handlers))
	for _, h := range handlers {
		handlerMap[h.Source()] = h
	}

	return &eventQueue{
		cfg:       cfg,
		log:       log,
		eventRepo: eventRepo,
		handlers:  handlerMap,
		inbox:     make(chan *models.WebhookEvent, cfg.Capacity),
		timers:    make(map[string]*time.Timer),
	}
}

func (q *eventQueue) Enqueue(ctx context.Context, source enum.EventSource, eventType string, data models.JSONMap, opts interfaces.EnqueueOptions) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "eventQueue.Enqueue")
	defer span.Finish()
	tracing.TagComponentQueue(span)
	span.SetTag("source", source.String())

	event := &models.WebhookEvent{
		Source:    source,
		EventType: eventType,
		Data:      data,
		Status:    enum.EventStatusPending,
		Tenant:    opts.Tenant,
		MachineID: opts.MachineID,
		LaundryID: opts.LaundryID,
	}

	// Persist first: the row is the source of truth, the channel is only a
	// hand-off. A crash between the two is repaired by the recovery sweep.
	id, err := q.eventRepo.Create(ctx, event)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}
	tracing.TagEvent(span, id)

	q.submit(event)

	return id, nil
}

func (q *eventQueue) Requeue(ctx context.Context, event *models.WebhookEvent) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "eventQueue.Requeue")
	defer span.Finish()
	tracing.TagComponentQueue(span)
	tracing.TagEvent(span, event.ID)

	if event.Status.IsTerminal() {
		err := errors.Errorf("event %s is already %s", event.ID, event.Status)
		tracing.TraceErr(span, err)
		return err
	}

	q.submit(event)
	return nil
}

// submit hands an event to the worker without ever blocking the caller. If
// the queue is stopped or the inbox is full the event simply stays pending
// in the store until the recovery sweep re-submits it.
func (q *eventQueue) submit(event *models.WebhookEvent) {
	q.mu.Lock()
	running := q.running
	q.mu.Unlock()

	if !running {
		q.log.Warnf("Event queue not running, event %s stays pending", event.ID)
		return
	}

	select {
	case q.inbox <- event:
	default:
		q.log.Warnf("Event queue inbox full, event %s stays pending", event.ID)
	}
}

func (q *eventQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}

	workerCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.done = make(chan struct{})
	q.running = true

	go q.run(workerCtx)

	q.log.Info("Event queue worker started")
}

func (q *eventQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	q.running = false
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.cancel()
	done := q.done
	q.mu.Unlock()

	select {
	case <-done:
		q.log.Info("Event queue worker stopped")
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "timed out waiting for event queue worker")
	}
}

func (q *eventQueue) run(ctx context.Context) {
	defer close(q.done)
	defer tracing.RecoverAndLogToJaeger(q.log)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-q.inbox:
			q.process(ctx, event)
		}
	}
}

func (q *eventQueue) process(ctx context.Context, event *models.WebhookEvent) {
	span, ctx := tracing.StartTracerSpan(ctx, "eventQueue.process")
	defer span.Finish()
	tracing.TagComponentQueue(span)
	tracing.TagEvent(span, event.ID)
	span.SetTag("source", event.Source.String())
	span.SetTag("attempt", event.RetryCount+1)

	ctx = utils.WithCustomContext(ctx, &utils.CustomContext{
		AppSource: "washstack",
		Tenant:    event.Tenant,
		LaundryId: event.LaundryID,
	})

	handler, exists := q.handlers[event.Source]
	if !exists {
		// Nothing to retry against, terminal right away.
		q.markFailed(ctx, span, event, washstack_errors.ErrUnknownEventSource)
		return
	}

	err := q.invoke(ctx, handler, event)
	if err == nil {
		event.Status = enum.EventStatusProcessed
		event.Error = ""
		event.ProcessedAt = utils.NowPtr()
		if updateErr := q.eventRepo.Update(ctx, event); updateErr != nil {
			tracing.TraceErr(span, updateErr)
			q.log.Errorf("Failed to persist processed status for event %s: %v", event.ID, updateErr)
		}
		return
	}

	tracing.TraceErr(span, err)
	event.RetryCount++

	if event.RetryCount < q.maxAttempts(event.Source) {
		if updateErr := q.eventRepo.Update(ctx, event); updateErr != nil {
			tracing.TraceErr(span, updateErr)
			q.log.Errorf("Failed to persist retry count for event %s: %v", event.ID, updateErr)
		}
		q.scheduleRetry(event)
		return
	}

	q.markFailed(ctx, span, event, err)
}

// invoke isolates one handler attempt, converting a panic into an error so a
// misbehaving payload counts as a failed attempt instead of killing the worker.
func (q *eventQueue) invoke(ctx context.Context, handler interfaces.SourceHandler, event *models.WebhookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

func (q *eventQueue) markFailed(ctx context.Context, span opentracing.Span, event *models.WebhookEvent, cause error) {
	event.Status = enum.EventStatusFailed
	event.Error = cause.Error()
	if updateErr := q.eventRepo.Update(ctx, event); updateErr != nil {
		tracing.TraceErr(span, updateErr)
		q.log.Errorf("Failed to persist failed status for event %s: %v", event.ID, updateErr)
	}
	q.log.Errorf("Event %s failed after %d attempts: %v", event.ID, event.RetryCount, cause)
}

// scheduleRetry re-submits the event after an exponential, jittered delay so
// a transiently failing event does not busy-loop ahead of the rest of the
// queue.
func (q *eventQueue) scheduleRetry(event *models.WebhookEvent) {
	b := &backoff.Backoff{
		Min:    q.cfg.BackoffMin,
		Max:    q.cfg.BackoffMax,
		Factor: 2,
		Jitter: true,
	}
	delay := b.ForAttempt(float64(event.RetryCount - 1))

	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}

	q.log.Infof("Retrying event %s in %s (attempt %d)", event.ID, delay, event.RetryCount+1)

	q.timers[event.ID] = time.AfterFunc(delay, func() {
		q.mu.Lock()
		delete(q.timers, event.ID)
		q.mu.Unlock()
		q.submit(event)
	})
}

func (q *eventQueue) maxAttempts(source enum.EventSource) int {
	if max, ok := q.cfg.MaxAttempts[source]; ok && max > 0 {
		return max
	}
	return DefaultMaxAttempts
}
