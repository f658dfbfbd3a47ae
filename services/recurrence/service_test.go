package recurrence

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/models"
)

type stubEventRepo struct {
	count int64
	err   error

	gotMachine  string
	gotCategory enum.CallCategory
	gotSince    time.Time
}

func (r *stubEventRepo) Create(ctx context.Context, event *models.WebhookEvent) (string, error) {
	return "", nil
}

func (r *stubEventRepo) Update(ctx context.Context, event *models.WebhookEvent) error {
	return nil
}

func (r *stubEventRepo) GetByID(ctx context.Context, id string) (*models.WebhookEvent, error) {
	return nil, nil
}

func (r *stubEventRepo) CountRecentByMachineAndCategory(ctx context.Context, machineID string, category enum.CallCategory, since time.Time) (int64, error) {
	r.gotMachine = machineID
	r.gotCategory = category
	r.gotSince = since
	return r.count, r.err
}

func (r *stubEventRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.WebhookEvent, error) {
	return nil, nil
}

func (r *stubEventRepo) ListRecent(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	return nil, nil
}

func TestIsRecurringFirstOccurrence(t *testing.T) {
	// The event being handled is already stored, so a count of one means it
	// is the only occurrence in the window.
	repo := &stubEventRepo{count: 1}
	s := NewRecurrenceService(repo, 24*time.Hour)

	recurring, err := s.IsRecurring(context.Background(), "machine-7", enum.CallTechnicalIssue)
	require.NoError(t, err)
	assert.False(t, recurring)
	assert.Equal(t, "machine-7", repo.gotMachine)
	assert.Equal(t, enum.CallTechnicalIssue, repo.gotCategory)
}

func TestIsRecurringSecondOccurrence(t *testing.T) {
	repo := &stubEventRepo{count: 2}
	s := NewRecurrenceService(repo, 24*time.Hour)

	recurring, err := s.IsRecurring(context.Background(), "machine-7", enum.CallTechnicalIssue)
	require.NoError(t, err)
	assert.True(t, recurring)
}

func TestIsRecurringWindowBounds(t *testing.T) {
	repo := &stubEventRepo{count: 1}
	s := NewRecurrenceService(repo, 6*time.Hour)

	_, err := s.IsRecurring(context.Background(), "machine-7", enum.CallPaymentTerminal)
	require.NoError(t, err)

	expected := time.Now().UTC().Add(-6 * time.Hour)
	assert.WithinDuration(t, expected, repo.gotSince, time.Minute)
}

func TestIsRecurringPropagatesError(t *testing.T) {
	repo := &stubEventRepo{err: errors.New("db down")}
	s := NewRecurrenceService(repo, 0)

	recurring, err := s.IsRecurring(context.Background(), "machine-7", enum.CallTechnicalIssue)
	assert.Error(t, err)
	assert.False(t, recurring)
}
