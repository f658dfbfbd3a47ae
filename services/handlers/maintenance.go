package handlers

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
)

// maintenanceHandler mirrors report status changes into the store and
// notifies stakeholders over the bus.
type maintenanceHandler struct {
	log        logger.Logger
	reportRepo interfaces.MaintenanceReportRepository
	publisher  interfaces.EventPublisher
}

func NewMaintenanceHandler(
	log logger.Logger,
	reportRepo interfaces.MaintenanceReportRepository,
	publisher interfaces.EventPublisher,
) interfaces.SourceHandler {
	return &maintenanceHandler{
		log:        log,
		reportRepo: reportRepo,
		publisher:  publisher,
	}
}

func (h *maintenanceHandler) Source() enum.EventSource {
	return enum.SourceMaintenance
}

func (h *maintenanceHandler) Handle(ctx context.Context, event *models.WebhookEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "maintenanceHandler.Handle")
	defer span.Finish()
	tracing.SetDefaultHandlerSpanTags(ctx, span)
	tracing.TagEvent(span, event.ID)

	payload, err := dto.DecodeEventData[dto.MaintenancePayload](event.Data)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if payload.MaintenanceID == "" {
		err := errors.New("maintenance payload has no maintenance id")
		tracing.TraceErr(span, err)
		return err
	}

	err = h.reportRepo.UpsertStatus(ctx, &models.MaintenanceReport{
		ID:           payload.MaintenanceID,
		Type:         payload.Type,
		Status:       payload.Status,
		TechnicianID: payload.TechnicianID,
	})
	if err != nil {
		return errors.Wrap(err, "failed to upsert maintenance report")
	}

	if h.publisher != nil {
		err = h.publisher.Publish(ctx, payload.MaintenanceID, "MaintenanceStatusChanged", dto.MaintenanceStatusChanged{
			MaintenanceID: payload.MaintenanceID,
			Status:        payload.Status,
			TechnicianID:  payload.TechnicianID,
			LaundryID:     payload.LaundryID,
		})
		if err != nil {
			return errors.Wrap(err, "failed to publish maintenance notification")
		}
	}

	h.log.Infof("Maintenance report %s moved to status %s", payload.MaintenanceID, payload.Status)
	return nil
}
