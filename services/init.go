package services

import (
	"time"

	"github.com/laundryos/washstack/config"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/listeners"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/repository"
	"github.com/laundryos/washstack/services/ai"
	"github.com/laundryos/washstack/services/alerts"
	"github.com/laundryos/washstack/services/events"
	"github.com/laundryos/washstack/services/handlers"
	"github.com/laundryos/washstack/services/queue"
	"github.com/laundryos/washstack/services/recurrence"
	"github.com/laundryos/washstack/services/sms"
)

type Services struct {
	CallClassifier     interfaces.CallClassifier
	SMSSender          interfaces.SMSSender
	RecurrenceDetector interfaces.RecurrenceDetector
	AlertDispatcher    interfaces.AlertDispatcher
	EventQueue         interfaces.EventQueue
	Publisher          *events.RabbitMQPublisher
	Subscriber         *events.RabbitMQSubscriber
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	services := &Services{
		CallClassifier: ai.NewAIService(cfg.OpenAIConfig),
		SMSSender:      sms.NewSMSService(cfg.TwilioConfig),
	}

	services.RecurrenceDetector = recurrence.NewRecurrenceService(
		repos.WebhookEventRepository,
		time.Duration(cfg.PipelineConfig.RecurrenceLookbackHours)*time.Hour,
	)

	services.AlertDispatcher = alerts.NewAlertService(
		alerts.Config{
			DashboardUrl:      cfg.AppConfig.DashboardPublicUrl,
			RecipientCacheLen: cfg.PipelineConfig.RecipientCacheSize,
			RecipientCacheTTL: time.Duration(cfg.PipelineConfig.RecipientCacheTTLSeconds) * time.Second,
		},
		log,
		services.SMSSender,
		repos.SmsAlertRepository,
		repos.AlertRecipientRepository,
		alerts.DefaultEscalationRules(),
	)

	if cfg.AppConfig.RabbitMQURL != "" {
		publisher, err := events.NewRabbitMQPublisher(cfg.AppConfig.RabbitMQURL, log, nil)
		if err != nil {
			return nil, err
		}
		services.Publisher = publisher

		subscriber, err := events.NewRabbitMQSubscriber(cfg.AppConfig.RabbitMQURL, log, nil)
		if err != nil {
			return nil, err
		}
		services.Subscriber = subscriber
	}

	var busPublisher interfaces.EventPublisher
	if services.Publisher != nil {
		busPublisher = services.Publisher
	}

	sourceHandlers := []interfaces.SourceHandler{
		handlers.NewCallTranscriptionHandler(
			log,
			services.CallClassifier,
			services.RecurrenceDetector,
			services.AlertDispatcher,
			repos.WebhookEventRepository,
		),
		handlers.NewPaymentHandler(log, repos.MaintenanceStatRepository),
		handlers.NewMaintenanceHandler(log, repos.MaintenanceReportRepository, busPublisher),
	}

	services.EventQueue = queue.NewEventQueue(
		queue.Config{
			MaxAttempts: map[enum.EventSource]int{
				enum.SourceCallTranscription: cfg.PipelineConfig.MaxAttemptsCallTranscription,
				enum.SourcePayment:           cfg.PipelineConfig.MaxAttemptsPayment,
				enum.SourceMaintenance:       cfg.PipelineConfig.MaxAttemptsMaintenance,
			},
			BackoffMin: time.Duration(cfg.PipelineConfig.RetryBackoffMinMs) * time.Millisecond,
			BackoffMax: time.Duration(cfg.PipelineConfig.RetryBackoffMaxMs) * time.Millisecond,
			Capacity:   cfg.PipelineConfig.QueueCapacity,
		},
		log,
		repos.WebhookEventRepository,
		sourceHandlers,
	)

	if services.Subscriber != nil {
		services.Subscriber.RegisterListener(listeners.NewCallTranscriptionListener(log, services.EventQueue))
		if err := services.Subscriber.ListenQueue(events.QueueWashstack); err != nil {
			return nil, err
		}
	}

	return services, nil
}

func (s *Services) Close() {
	if s.Publisher != nil {
		_ = s.Publisher.Close()
	}
	if s.Subscriber != nil {
		_ = s.Subscriber.Close()
	}
}
