package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitlens/api/analytics"
	"visitlens/api/utils"
)

// DashboardProvider computes the dashboard for a filter selection.
type DashboardProvider interface {
	Dashboard(ctx context.Context, f analytics.Filter) (*analytics.Dashboard, error)
}

type StatsHandlers struct {
	dashboards DashboardProvider
	log        *zap.Logger
	timeout    time.Duration
}

func NewStatsHandlers(dashboards DashboardProvider, log *zap.Logger, timeout time.Duration) *StatsHandlers {
	return &StatsHandlers{dashboards: dashboards, log: log, timeout: timeout}
}

func (h *StatsHandlers) GetDashboard(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d })
}

func (h *StatsHandlers) GetSummary(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Summary })
}

func (h *StatsHandlers) GetCountries(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Countries })
}

func (h *StatsHandlers) GetBrowsers(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Browsers })
}

func (h *StatsHandlers) GetPages(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Pages })
}

func (h *StatsHandlers) GetDaily(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Daily })
}

func (h *StatsHandlers) GetGeo(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Geo })
}

func (h *StatsHandlers) GetBlogViews(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.BlogViews })
}

func (h *StatsHandlers) GetActivity(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.Activity })
}

func (h *StatsHandlers) GetContactStatus(c *gin.Context) {
	h.respond(c, func(d *analytics.Dashboard) any { return d.ContactStatus })
}

func (h *StatsHandlers) respond(c *gin.Context, pick func(*analytics.Dashboard) any) {
	f, ok := parseFilter(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	d, err := h.dashboards.Dashboard(ctx, f)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to compute dashboard",
			zap.Error(err),
			zap.Int("window_days", f.WindowDays),
			zap.String("country", f.Country))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visitor statistics"})
		return
	}

	c.JSON(http.StatusOK, pick(d))
}

// parseFilter reads ?days= and ?country=. Only the ranges offered by the
// dashboard are accepted here; the engine itself takes any positive window.
func parseFilter(c *gin.Context) (analytics.Filter, bool) {
	f := analytics.Filter{WindowDays: utils.DefaultWindow, Country: c.Query("country")}

	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || !utils.IsValidWindow(days) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid 'days' parameter",
				"allowed": utils.AllowedWindows,
			})
			return f, false
		}
		f.WindowDays = days
	}
	return f, true
}
