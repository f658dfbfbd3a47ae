package alerts

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
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

type fakeSMSSender struct {
	mu      sync.Mutex
	sent    map[string]string
	failFor map[string]error
}

func newFakeSMSSender() *fakeSMSSender {
	return &fakeSMSSender{
		sent:    make(map[string]string),
		failFor: make(map[string]error),
	}
}

func (s *fakeSMSSender) Send(ctx context.Context, phoneNumber, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[phoneNumber]; ok {
		return err
	}
	s.sent[phoneNumber] = message
	return nil
}

type fakeSmsAlertRepo struct {
	existing map[string]bool
	created  []*models.SmsAlert
}

func newFakeSmsAlertRepo() *fakeSmsAlertRepo {
	return &fakeSmsAlertRepo{existing: make(map[string]bool)}
}

func (r *fakeSmsAlertRepo) Create(ctx context.Context, alert *models.SmsAlert) (string, error) {
	alert.ID = "alert-1"
	r.created = append(r.created, alert)
	r.existing[alert.EventID] = true
	return alert.ID, nil
}

func (r *fakeSmsAlertRepo) ExistsForEvent(ctx context.Context, eventID string) (bool, error) {
	return r.existing[eventID], nil
}

func (r *fakeSmsAlertRepo) ListRecent(ctx context.Context, limit int) ([]*models.SmsAlert, error) {
	return r.created, nil
}

type fakeRecipientRepo struct {
	recipients []*models.AlertRecipient
	calls      int
}

func (r *fakeRecipientRepo) ListActiveByLaundry(ctx context.Context, laundryID string) ([]*models.AlertRecipient, error) {
	r.calls++
	return r.recipients, nil
}

func (r *fakeRecipientRepo) Create(ctx context.Context, recipient *models.AlertRecipient) (string, error) {
	return "", nil
}

func recipients(numbers ...string) []*models.AlertRecipient {
	var out []*models.AlertRecipient
	for _, n := range numbers {
		out = append(out, &models.AlertRecipient{PhoneNumber: n, Active: true})
	}
	return out
}

func technicalClassification() *dto.CallClassification {
	return &dto.CallClassification{
		Category:           enum.CallTechnicalIssue,
		Severity:           enum.SeverityMedium,
		RequiresTechnician: true,
		ClientMood:         enum.MoodCalm,
		MachineImpact:      enum.ImpactSingleMachine,
		Summary:            "Lave-linge 3 ne démarre pas",
		RecommendedActions: []string{"Vérifier le disjoncteur", "Planifier une intervention"},
	}
}

func criticalClassification() *dto.CallClassification {
	c := technicalClassification()
	c.Category = enum.CallCriticalIncident
	c.Severity = enum.SeverityCritical
	c.Summary = "Fuite d'eau importante dans la laverie"
	return c
}

func dispatcher(sender interfaces.SMSSender, alertRepo interfaces.SmsAlertRepository, recipientRepo interfaces.AlertRecipientRepository) interfaces.AlertDispatcher {
	return NewAlertService(
		Config{DashboardUrl: "https://app.example.fr"},
		getLogger(),
		sender,
		alertRepo,
		recipientRepo,
		nil,
	)
}

func request(eventID string, c *dto.CallClassification, recurring bool) interfaces.AlertRequest {
	return interfaces.AlertRequest{
		EventID:        eventID,
		MachineID:      "machine-7",
		MachineLabel:   "Lave-linge 3",
		LaundryID:      "laundry-1",
		LaundryAddress: "12 rue de la Paix, Lyon",
		Classification: c,
		IsRecurring:    recurring,
	}
}

func TestDispatchInformationRequestIsSilent(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	c := technicalClassification()
	c.Category = enum.CallInformationRequest

	alert, err := d.Dispatch(context.Background(), request("event-1", c, false))
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.Empty(t, sender.sent)
	assert.Empty(t, alertRepo.created)
}

func TestDispatchStandardAlert(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	alert, err := d.Dispatch(context.Background(), request("event-1", technicalClassification(), false))
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, enum.AlertTechnicalIssue, alert.AlertType)
	message := sender.sent["+33600000001"]
	assert.Contains(t, message, "⚠️ PROBLÈME SIGNALÉ")
	assert.NotContains(t, message, "🚨 INCIDENT PRIORITAIRE")
	assert.Contains(t, message, "Lave-linge 3")
	assert.Contains(t, message, "Intervention technicien requise")
	assert.Contains(t, message, "1. Vérifier le disjoncteur")
	assert.Contains(t, message, "https://app.example.fr/events/event-1")
	assert.NotContains(t, message, recurringMarker)
}

func TestDispatchPriorityAlert(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	alert, err := d.Dispatch(context.Background(), request("event-1", criticalClassification(), false))
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.Equal(t, enum.AlertCriticalIncident, alert.AlertType)
	assert.Contains(t, sender.sent["+33600000001"], "🚨 INCIDENT PRIORITAIRE")
}

func TestDispatchRecurringEscalatesAndMarks(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	// A recurring technical issue escalates to priority via the rule table.
	alert, err := d.Dispatch(context.Background(), request("event-1", technicalClassification(), true))
	require.NoError(t, err)
	require.NotNil(t, alert)

	assert.True(t, alert.IsRecurring)
	assert.Equal(t, enum.AlertCriticalIncident, alert.AlertType)
	message := sender.sent["+33600000001"]
	assert.Contains(t, message, "🚨 INCIDENT PRIORITAIRE")
	assert.Contains(t, message, recurringMarker)
}

func TestDispatchPartialDeliveryFailure(t *testing.T) {
	sender := newFakeSMSSender()
	sender.failFor["+33600000002"] = errors.New("carrier rejected")
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001", "+33600000002", "+33600000003")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	alert, err := d.Dispatch(context.Background(), request("event-1", criticalClassification(), false))
	require.NoError(t, err)
	require.NotNil(t, alert)

	// The failed recipient is excluded from history, the others still got it.
	assert.ElementsMatch(t, []string{"+33600000001", "+33600000003"}, []string(alert.Recipients))
	assert.Len(t, alertRepo.created, 1)
}

func TestDispatchIsIdempotentPerEvent(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	first, err := d.Dispatch(context.Background(), request("event-1", criticalClassification(), false))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := d.Dispatch(context.Background(), request("event-1", criticalClassification(), false))
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, alertRepo.created, 1)
}

func TestDispatchCachesRecipientLookups(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{recipients: recipients("+33600000001")}
	d := dispatcher(sender, alertRepo, recipientRepo)

	_, err := d.Dispatch(context.Background(), request("event-1", criticalClassification(), false))
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), request("event-2", criticalClassification(), false))
	require.NoError(t, err)

	assert.Equal(t, 1, recipientRepo.calls)
}

func TestDispatchNilClassification(t *testing.T) {
	sender := newFakeSMSSender()
	alertRepo := newFakeSmsAlertRepo()
	recipientRepo := &fakeRecipientRepo{}
	d := dispatcher(sender, alertRepo, recipientRepo)

	_, err := d.Dispatch(context.Background(), request("event-1", nil, false))
	assert.Error(t, err)
}
