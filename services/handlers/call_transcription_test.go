package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	washstack_errors "github.com/laundryos/washstack/internal/errors"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/models"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type stubClassifier struct {
	classification *dto.CallClassification
	err            error
	calls          int
}

func (c *stubClassifier) ClassifyTranscript(ctx context.Context, transcript string) (*dto.CallClassification, error) {
	c.calls++
	return c.classification, c.err
}

type stubRecurrence struct {
	recurring bool
	err       error
	calls     int
}

func (r *stubRecurrence) IsRecurring(ctx context.Context, machineID string, category enum.CallCategory) (bool, error) {
	r.calls++
	return r.recurring, r.err
}

type stubDispatcher struct {
	request *interfaces.AlertRequest
	alert   *models.SmsAlert
	err     error
}

func (d *stubDispatcher) Dispatch(ctx context.Context, request interfaces.AlertRequest) (*models.SmsAlert, error) {
	d.request = &request
	return d.alert, d.err
}

type captureEventRepo struct {
	updated *models.WebhookEvent
	err     error
}

func (r *captureEventRepo) Create(ctx context.Context, event *models.WebhookEvent) (string, error) {
	return "", nil
}

func (r *captureEventRepo) Update(ctx context.Context, event *models.WebhookEvent) error {
	stored := *event
	r.updated = &stored
	return r.err
}

func (r *captureEventRepo) GetByID(ctx context.Context, id string) (*models.WebhookEvent, error) {
	return nil, nil
}

func (r *captureEventRepo) CountRecentByMachineAndCategory(ctx context.Context, machineID string, category enum.CallCategory, since time.Time) (int64, error) {
	return 0, nil
}

func (r *captureEventRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.WebhookEvent, error) {
	return nil, nil
}

func (r *captureEventRepo) ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	return nil, nil
}

func callEvent(transcript string) *models.WebhookEvent {
	return &models.WebhookEvent{
		ID:     "event-1",
		Tenant: "tenant1",
		Source: enum.SourceCallTranscription,
		Status: enum.EventStatusPending,
		Data: models.JSONMap{
			"type":            "call.ended",
			"call_id":         "call-42",
			"transcript":      transcript,
			"machine_id":      "machine-7",
			"machine_label":   "Lave-linge 3",
			"laundry_id":      "laundry-1",
			"laundry_address": "12 rue de la Paix, Lyon",
		},
	}
}

func classification() *dto.CallClassification {
	return &dto.CallClassification{
		Category:           enum.CallCriticalIncident,
		Severity:           enum.SeverityCritical,
		RequiresTechnician: true,
		ClientMood:         enum.MoodAngry,
		MachineImpact:      enum.ImpactSingleMachine,
		Summary:            "Fuite d'eau importante",
		RecommendedActions: []string{"Couper l'arrivée d'eau"},
	}
}

func TestCallTranscriptionFullChain(t *testing.T) {
	classifier := &stubClassifier{classification: classification()}
	recurrence := &stubRecurrence{recurring: true}
	dispatcher := &stubDispatcher{alert: &models.SmsAlert{ID: "alert-1"}}
	eventRepo := &captureEventRepo{}

	h := NewCallTranscriptionHandler(getLogger(), classifier, recurrence, dispatcher, eventRepo)
	event := callEvent("de l'eau partout devant la machine 3")

	err := h.Handle(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, 1, recurrence.calls)

	// Classification persisted onto the event before dispatch
	require.NotNil(t, eventRepo.updated)
	assert.Equal(t, enum.CallCriticalIncident.String(), eventRepo.updated.Category)
	assert.Contains(t, eventRepo.updated.Data, "analysis")

	// Dispatcher saw the classification and the recurrence verdict
	require.NotNil(t, dispatcher.request)
	assert.Equal(t, "event-1", dispatcher.request.EventID)
	assert.Equal(t, "machine-7", dispatcher.request.MachineID)
	assert.Equal(t, "Lave-linge 3", dispatcher.request.MachineLabel)
	assert.True(t, dispatcher.request.IsRecurring)
	assert.Equal(t, classifier.classification, dispatcher.request.Classification)
}

func TestCallTranscriptionMissingTranscript(t *testing.T) {
	classifier := &stubClassifier{classification: classification()}
	dispatcher := &stubDispatcher{}

	h := NewCallTranscriptionHandler(getLogger(), classifier, &stubRecurrence{}, dispatcher, &captureEventRepo{})

	err := h.Handle(context.Background(), callEvent(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, washstack_errors.ErrTranscriptMissing)
	assert.Equal(t, 0, classifier.calls)
	assert.Nil(t, dispatcher.request)
}

func TestCallTranscriptionClassifierFailureAbortsChain(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("llm unavailable")}
	recurrence := &stubRecurrence{}
	dispatcher := &stubDispatcher{}
	eventRepo := &captureEventRepo{}

	h := NewCallTranscriptionHandler(getLogger(), classifier, recurrence, dispatcher, eventRepo)

	err := h.Handle(context.Background(), callEvent("la machine ne démarre pas"))
	require.Error(t, err)
	assert.Equal(t, 0, recurrence.calls)
	assert.Nil(t, dispatcher.request)
	assert.Nil(t, eventRepo.updated)
}

func TestCallTranscriptionDispatchFailurePropagates(t *testing.T) {
	dispatcher := &stubDispatcher{err: errors.New("all carriers down")}

	h := NewCallTranscriptionHandler(getLogger(), &stubClassifier{classification: classification()}, &stubRecurrence{}, dispatcher, &captureEventRepo{})

	err := h.Handle(context.Background(), callEvent("panne"))
	assert.Error(t, err)
}
