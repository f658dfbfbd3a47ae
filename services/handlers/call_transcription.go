package handlers

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	washstack_errors "github.com/laundryos/washstack/internal/errors"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/models"
	"github.com/laundryos/washstack/internal/tracing"
)

// callTranscriptionHandler runs the full chain for one ended support call:
// classify, detect recurrence, dispatch. Any stage failing aborts the whole
// invocation, which the queue retries as a unit; the dispatcher's own
// idempotence check keeps retries from double-alerting.
type callTranscriptionHandler struct {
	log        logger.Logger
	classifier interfaces.CallClassifier
	recurrence interfaces.RecurrenceDetector
	dispatcher interfaces.AlertDispatcher
	eventRepo  interfaces.WebhookEventRepository
}

func NewCallTranscriptionHandler(
	log logger.Logger,
	classifier interfaces.CallClassifier,
	recurrence interfaces.RecurrenceDetector,
	dispatcher interfaces.AlertDispatcher,
	eventRepo interfaces.WebhookEventRepository,
) interfaces.SourceHandler {
	return &callTranscriptionHandler{
		log:        log,
		classifier: classifier,
		recurrence: recurrence,
		dispatcher: dispatcher,
		eventRepo:  eventRepo,
	}
}

func (h *callTranscriptionHandler) Source() enum.EventSource {
	return enum.SourceCallTranscription
}

func (h *callTranscriptionHandler) Handle(ctx context.Context, event *models.WebhookEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "callTranscriptionHandler.Handle")
	defer span.Finish()
	tracing.SetDefaultHandlerSpanTags(ctx, span)
	tracing.TagEvent(span, event.ID)

	payload, err := dto.DecodeEventData[dto.CallTranscriptionPayload](event.Data)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	if payload.Transcript == "" {
		tracing.TraceErr(span, washstack_errors.ErrTranscriptMissing)
		return washstack_errors.ErrTranscriptMissing
	}

	classification, err := h.classifier.ClassifyTranscript(ctx, payload.Transcript)
	if err != nil {
		return errors.Wrap(err, "classification failed")
	}

	// Persist the analysis before the recurrence lookup so the current call
	// is part of the category-indexed history it queries.
	analysis, err := dto.EncodeEventData(classification)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	if event.Data == nil {
		event.Data = models.JSONMap{}
	}
	event.Data["analysis"] = map[string]interface{}(analysis)
	event.Category = classification.Category.String()
	if err := h.eventRepo.Update(ctx, event); err != nil {
		return errors.Wrap(err, "failed to persist classification")
	}

	isRecurring, err := h.recurrence.IsRecurring(ctx, payload.MachineID, classification.Category)
	if err != nil {
		return errors.Wrap(err, "recurrence lookup failed")
	}
	span.SetTag("is_recurring", isRecurring)

	alert, err := h.dispatcher.Dispatch(ctx, interfaces.AlertRequest{
		EventID:        event.ID,
		Tenant:         event.Tenant,
		MachineID:      payload.MachineID,
		MachineLabel:   payload.MachineLabel,
		LaundryID:      payload.LaundryID,
		LaundryAddress: payload.LaundryAddress,
		Classification: classification,
		IsRecurring:    isRecurring,
	})
	if err != nil {
		return errors.Wrap(err, "alert dispatch failed")
	}

	if alert != nil {
		h.log.Infof("Call %s classified as %s/%s, alert %s dispatched",
			payload.CallID, classification.Category, classification.Severity, alert.ID)
	} else {
		h.log.Infof("Call %s classified as %s/%s, no alert required",
			payload.CallID, classification.Category, classification.Severity)
	}

	return nil
}
