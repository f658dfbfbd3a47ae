package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/models"
)

type stubReportRepo struct {
	upserted *models.MaintenanceReport
}

func (r *stubReportRepo) UpsertStatus(ctx context.Context, report *models.MaintenanceReport) error {
	r.upserted = report
	return nil
}

type stubPublisher struct {
	entityId  string
	eventType string
	data      any
}

func (p *stubPublisher) Publish(ctx context.Context, entityId string, eventType string, data any) error {
	p.entityId = entityId
	p.eventType = eventType
	p.data = data
	return nil
}

func (p *stubPublisher) Close() error {
	return nil
}

func maintenanceEvent() *models.WebhookEvent {
	return &models.WebhookEvent{
		ID:     "event-1",
		Source: enum.SourceMaintenance,
		Data: models.JSONMap{
			"maintenance_id": "maint-5",
			"type":           "repair",
			"status":         "completed",
			"technician_id":  "tech-2",
			"laundry_id":     "laundry-1",
		},
	}
}

func TestMaintenanceUpsertsAndPublishes(t *testing.T) {
	repo := &stubReportRepo{}
	publisher := &stubPublisher{}
	h := NewMaintenanceHandler(getLogger(), repo, publisher)

	err := h.Handle(context.Background(), maintenanceEvent())
	require.NoError(t, err)

	require.NotNil(t, repo.upserted)
	assert.Equal(t, "maint-5", repo.upserted.ID)
	assert.Equal(t, "completed", repo.upserted.Status)
	assert.Equal(t, "tech-2", repo.upserted.TechnicianID)

	assert.Equal(t, "maint-5", publisher.entityId)
	assert.Equal(t, "MaintenanceStatusChanged", publisher.eventType)
	notification, ok := publisher.data.(dto.MaintenanceStatusChanged)
	require.True(t, ok)
	assert.Equal(t, "completed", notification.Status)
}

func TestMaintenanceWithoutPublisher(t *testing.T) {
	repo := &stubReportRepo{}
	h := NewMaintenanceHandler(getLogger(), repo, nil)

	err := h.Handle(context.Background(), maintenanceEvent())
	require.NoError(t, err)
	require.NotNil(t, repo.upserted)
}

func TestMaintenanceMissingIdFails(t *testing.T) {
	repo := &stubReportRepo{}
	h := NewMaintenanceHandler(getLogger(), repo, &stubPublisher{})

	event := maintenanceEvent()
	delete(event.Data, "maintenance_id")

	err := h.Handle(context.Background(), event)
	assert.Error(t, err)
	assert.Nil(t, repo.upserted)
}
