package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/laundryos/washstack/internal/repository"
	"github.com/laundryos/washstack/internal/tracing"
)

const defaultListLimit = 50

// Read endpoints backing the operator dashboard.

func ListRecentEvents(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "ListRecentEvents")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		events, err := repos.WebhookEventRepository.ListRecent(ctx, listLimit(c))
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

func ListRecentAlerts(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "ListRecentAlerts")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		alerts, err := repos.SmsAlertRepository.ListRecent(ctx, listLimit(c))
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"alerts": alerts})
	}
}

func GetEvent(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "GetEvent")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)
		tracing.TagEvent(span, c.Param("id"))

		event, err := repos.WebhookEventRepository.GetByID(ctx, c.Param("id"))
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
			return
		}
		if event == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}

		c.JSON(http.StatusOK, event)
	}
}

func GetMachineStats(repos *repository.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span, ctx := opentracing.StartSpanFromContext(ctx, "GetMachineStats")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)
		tracing.TagMachine(span, c.Param("id"))

		stats, err := repos.MaintenanceStatRepository.GetByMachine(ctx, c.Param("id"))
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load machine stats"})
			return
		}
		if stats == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no stats for machine"})
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func listLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}
