package alerts

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lib/pq"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
)

type Config struct {
	DashboardUrl      string
	RecipientCacheLen int
	RecipientCacheTTL time.Duration
}

type alertService struct {
	cfg            Config
	log            logger.Logger
	smsSender      interfaces.SMSSender
	alertRepo      interfaces.SmsAlertRepository
	recipientRepo  interfaces.AlertRecipientRepository
	rules          []EscalationRule
	recipientCache *lru.LRU[string, []*models.AlertRecipient]
}

func NewAlertService(
	cfg Config,
	log logger.Logger,
	smsSender interfaces.SMSSender,
	alertRepo interfaces.SmsAlertRepository,
	recipientRepo interfaces.AlertRecipientRepository,
	rules []EscalationRule,
) interfaces.AlertDispatcher {
	if rules == nil {
		rules = DefaultEscalationRules()
	}
	if cfg.RecipientCacheLen <= 0 {
		cfg.RecipientCacheLen = 256
	}
	if cfg.RecipientCacheTTL <= 0 {
		cfg.RecipientCacheTTL = 5 * time.Minute
	}

	return &alertService{
		cfg:            cfg,
		log:            log,
		smsSender:      smsSender,
		alertRepo:      alertRepo,
		recipientRepo:  recipientRepo,
		rules:          rules,
		recipientCache: lru.NewLRU[string, []*models.AlertRecipient](cfg.RecipientCacheLen, nil, cfg.RecipientCacheTTL),
	}
}

func (s *alertService) Dispatch(ctx context.Context, request interfaces.AlertRequest) (*models.SmsAlert, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "alertService.Dispatch")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEvent(span, request.EventID)
	tracing.TagMachine(span, request.MachineID)

	if request.Classification == nil {
		err := errors.New("classification is nil")
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Informational calls never page anyone.
	if request.Classification.Category == enum.CallInformationRequest {
		span.SetTag("skipped", "information_request")
		return nil, nil
	}

	// At most one alert per event, whatever the queue retries did before us.
	exists, err := s.alertRepo.ExistsForEvent(ctx, request.EventID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	if exists {
		span.SetTag("skipped", "already_dispatched")
		return nil, nil
	}

	priority := isPriority(s.rules, request.Classification, request.IsRecurring)
	span.SetTag("priority", priority)

	alertType := enum.AlertTechnicalIssue
	if priority {
		alertType = enum.AlertCriticalIncident
	}

	message := composeMessage(request, priority, s.cfg.DashboardUrl)

	recipients, err := s.activeRecipients(ctx, request.LaundryID)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Fan out one send per recipient. A failed recipient is logged and
	// excluded from the history row; the rest still get the alert.
	var notified []string
	for _, recipient := range recipients {
		if err := s.smsSender.Send(ctx, recipient.PhoneNumber, message); err != nil {
			tracing.TraceErr(span, errors.Wrapf(err, "sms delivery failed for %s", recipient.PhoneNumber))
			s.log.Errorf("SMS delivery failed for event %s to %s: %v", request.EventID, recipient.PhoneNumber, err)
			continue
		}
		notified = append(notified, recipient.PhoneNumber)
	}

	alert := &models.SmsAlert{
		EventID:     request.EventID,
		MachineID:   request.MachineID,
		LaundryID:   request.LaundryID,
		AlertType:   alertType,
		Message:     message,
		Recipients:  pq.StringArray(notified),
		IsRecurring: request.IsRecurring,
	}

	if _, err := s.alertRepo.Create(ctx, alert); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	s.log.Infof("Dispatched %s alert for event %s to %d/%d recipients",
		alertType, request.EventID, len(notified), len(recipients))

	return alert, nil
}

func (s *alertService) activeRecipients(ctx context.Context, laundryID string) ([]*models.AlertRecipient, error) {
	if cached, ok := s.recipientCache.Get(laundryID); ok {
		return cached, nil
	}

	recipients, err := s.recipientRepo.ListActiveByLaundry(ctx, laundryID)
	if err != nil {
		return nil, err
	}

	s.recipientCache.Add(laundryID, recipients)
	return recipients, nil
}
