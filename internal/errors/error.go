package errors

import "github.com/pkg/errors"

var (
	// common errors
	ErrTenantMissing     = errors.New("tenant is missing")
	ErrConnectionTimeout = errors.New("connection timeout")

	// pipeline errors
	ErrUnknownEventSource  = errors.New("no handler registered for event source")
	ErrTranscriptMissing   = errors.New("transcript is missing from call payload")
	ErrQueueStopped        = errors.New("event queue is stopped")
	ErrClassificationShape = errors.New("classification response has invalid shape")
)
