package interfaces

import (
	"context"

	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/models"
)

// EventQueue accepts inbound webhook events and drives each one to a
// terminal status through the registered source handlers.
type EventQueue interface {
	// Enqueue persists a pending event and hands it to the worker. It never
	// blocks on handler execution.
	Enqueue(ctx context.Context, source enum.EventSource, eventType string, data models.JSONMap, opts EnqueueOptions) (string, error)

	// Requeue re-submits an already-persisted pending event (crash recovery).
	Requeue(ctx context.Context, event *models.WebhookEvent) error

	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

// EnqueueOptions carries the denormalized lookup keys extracted at the
// webhook boundary.
type EnqueueOptions struct {
	Tenant    string
	MachineID string
	LaundryID string
}

// SourceHandler is the per-source business logic invoked by the queue
// worker. A returned error makes the attempt eligible for retry.
type SourceHandler interface {
	Source() enum.EventSource
	Handle(ctx context.Context, event *models.WebhookEvent) error
}
