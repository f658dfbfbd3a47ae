package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/laundryos/washstack/dto"
	"github.com/laundryos/washstack/interfaces"
	"github.com/laundryos/washstack/internal/enum"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/internal/utils"
)

// Webhook receivers validate shape, persist and hand off. All processing is
// asynchronous; providers get a 202 as soon as the event is safely stored.

func ReceiveCallTranscription(queue interfaces.EventQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "ReceiveCallTranscription")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var payload dto.CallTranscriptionPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		if payload.MachineID == "" || payload.LaundryID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "machine_id and laundry_id are required"})
			return
		}

		enqueueEvent(c, ctx, queue, enum.SourceCallTranscription, payload.Type, payload, interfaces.EnqueueOptions{
			Tenant:    utils.GetTenantFromContext(ctx),
			MachineID: payload.MachineID,
			LaundryID: payload.LaundryID,
		})
	}
}

func ReceivePayment(queue interfaces.EventQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "ReceivePayment")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var payload dto.PaymentPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		if payload.TransactionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id is required"})
			return
		}

		enqueueEvent(c, ctx, queue, enum.SourcePayment, payload.Status, payload, interfaces.EnqueueOptions{
			Tenant:    utils.GetTenantFromContext(ctx),
			MachineID: payload.MachineID,
			LaundryID: payload.LaundryID,
		})
	}
}

func ReceiveMaintenance(queue interfaces.EventQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "ReceiveMaintenance")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var payload dto.MaintenancePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		if payload.MaintenanceID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maintenance_id is required"})
			return
		}

		enqueueEvent(c, ctx, queue, enum.SourceMaintenance, payload.Status, payload, interfaces.EnqueueOptions{
			Tenant:    utils.GetTenantFromContext(ctx),
			LaundryID: payload.LaundryID,
		})
	}
}

func enqueueEvent(c *gin.Context, ctx context.Context, queue interfaces.EventQueue, source enum.EventSource, eventType string, payload any, opts interfaces.EnqueueOptions) {
	data, err := dto.EncodeEventData(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id, err := queue.Enqueue(ctx, source, eventType, data, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept event"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":     id,
		"status": "accepted",
	})
}
