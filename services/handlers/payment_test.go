package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/models"
)

type stubStatRepo struct {
	machineID string
	laundryID string
	cost      float64
	calls     int
}

func (r *stubStatRepo) RecordIntervention(ctx context.Context, machineID, laundryID string, cost float64, at time.Time) error {
	r.calls++
	r.machineID = machineID
	r.laundryID = laundryID
	r.cost = cost
	return nil
}

func (r *stubStatRepo) GetByMachine(ctx context.Context, machineID string) (*models.MaintenanceStat, error) {
	return nil, nil
}

func paymentEvent(status string, amount float64) *models.WebhookEvent {
	return &models.WebhookEvent{
		ID:     "event-1",
		Source: enum.SourcePayment,
		Data: models.JSONMap{
			"transaction_id": "tx-9",
			"status":         status,
			"amount":         amount,
			"machine_id":     "machine-7",
			"laundry_id":     "laundry-1",
		},
	}
}

func TestPaymentSuccessRecordsIntervention(t *testing.T) {
	repo := &stubStatRepo{}
	h := NewPaymentHandler(getLogger(), repo)

	err := h.Handle(context.Background(), paymentEvent("success", 85.50))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "machine-7", repo.machineID)
	assert.Equal(t, "laundry-1", repo.laundryID)
	assert.InDelta(t, 85.50, repo.cost, 0.001)
}

func TestPaymentFailureIsIgnored(t *testing.T) {
	repo := &stubStatRepo{}
	h := NewPaymentHandler(getLogger(), repo)

	err := h.Handle(context.Background(), paymentEvent("failed", 85.50))
	require.NoError(t, err)
	assert.Equal(t, 0, repo.calls)
}

func TestPaymentSuccessWithoutMachineFails(t *testing.T) {
	repo := &stubStatRepo{}
	h := NewPaymentHandler(getLogger(), repo)

	event := paymentEvent("success", 10)
	delete(event.Data, "machine_id")

	err := h.Handle(context.Background(), event)
	assert.Error(t, err)
	assert.Equal(t, 0, repo.calls)
}
