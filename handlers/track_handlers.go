// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitlens/api/models"
	"visitlens/api/observability"
	"visitlens/api/utils"
)

// VisitRecorder appends visits to the visit log.
type VisitRecorder interface {
	InsertVisit(ctx context.Context, v models.VisitRecord) (string, error)
}

type VisitHandlers struct {
	recorder VisitRecorder
	metrics  *observability.Metrics
	log      *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

func NewVisitHandlers(recorder VisitRecorder, metrics *observability.Metrics, log *zap.Logger, timeout time.Duration) *VisitHandlers {
	return &VisitHandlers{
		recorder: recorder,
		metrics:  metrics,
		log:      log,
		timeout:  timeout,
		now:      time.Now,
	}
}

// TrackVisit records one page view. Identity, user agent and geolocation come
// from the request itself, not from the body.
func (h *VisitHandlers) TrackVisit(c *gin.Context) {
	var req models.TrackVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.VisitsTrackedTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	visit := models.VisitRecord{
		Timestamp:   h.now().UTC(),
		Path:        req.Path,
		UserAgent:   req.UserAgent,
		Referrer:    req.Referrer,
		ScreenWidth: req.ScreenWidth,
		IP:          c.ClientIP(),
	}
	if visit.UserAgent == "" {
		visit.UserAgent = c.Request.UserAgent()
	}
	utils.ApplyEdgeGeo(&visit, c.Request.Header)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	id, err := h.recorder.InsertVisit(ctx, visit)
	if err != nil {
		h.metrics.VisitsTrackedTotal.WithLabelValues("error").Inc()
		h.log.Error("Failed to record visit", zap.Error(err), zap.String("path", visit.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record visit"})
		return
	}

	h.metrics.VisitsTrackedTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusCreated, gin.H{"visitId": id})
}
