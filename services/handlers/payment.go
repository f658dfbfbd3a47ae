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
	"github.com/laundryos/washstack/internal/utils"
)

const paymentStatusSuccess = "success"

// paymentHandler records transaction outcomes; successful intervention
// payments roll into the per-machine maintenance aggregate.
type paymentHandler struct {
	log      logger.Logger
	statRepo interfaces.MaintenanceStatRepository
}

func NewPaymentHandler(log logger.Logger, statRepo interfaces.MaintenanceStatRepository) interfaces.SourceHandler {
	return &paymentHandler{
		log:      log,
		statRepo: statRepo,
	}
}

func (h *paymentHandler) Source() enum.EventSource {
	return enum.SourcePayment
}

func (h *paymentHandler) Handle(ctx context.Context, event *models.WebhookEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "paymentHandler.Handle")
	defer span.Finish()
	tracing.SetDefaultHandlerSpanTags(ctx, span)
	tracing.TagEvent(span, event.ID)

	payload, err := dto.DecodeEventData[dto.PaymentPayload](event.Data)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	span.SetTag("transaction_id", payload.TransactionID)
	span.SetTag("status", payload.Status)

	if payload.Status != paymentStatusSuccess {
		h.log.Infof("Payment %s for machine %s has status %s, no aggregate update",
			payload.TransactionID, payload.MachineID, payload.Status)
		return nil
	}

	if payload.MachineID == "" {
		err := errors.New("payment payload has no machine id")
		tracing.TraceErr(span, err)
		return err
	}

	err = h.statRepo.RecordIntervention(ctx, payload.MachineID, payload.LaundryID, payload.Amount, utils.Now())
	if err != nil {
		return errors.Wrap(err, "failed to record intervention")
	}

	h.log.Infof("Recorded intervention of %.2f for machine %s", payload.Amount, payload.MachineID)
	return nil
}
