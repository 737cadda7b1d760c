package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visitlens/api/middleware"
	"visitlens/api/observability"
)

// RouterDeps bundles what the HTTP surface needs.
type RouterDeps struct {
	Visits         *VisitHandlers
	Stats          *StatsHandlers
	Auth           *AuthHandlers
	Metrics        *observability.Metrics
	Log            *zap.Logger
	JWTSecret      []byte
	AdminAPIKey    string
	FrontendOrigin string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log, d.Metrics))
	r.Use(middleware.CORS(d.FrontendOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/track", d.Visits.TrackVisit)
		api.POST("/login", d.Auth.Login)
		api.POST("/logout", d.Auth.Logout)

		stats := api.Group("/stats")
		stats.Use(middleware.AuthRequired(d.JWTSecret, d.AdminAPIKey, d.Log))
		{
			stats.GET("/dashboard", d.Stats.GetDashboard)
			stats.GET("/summary", d.Stats.GetSummary)
			stats.GET("/countries", d.Stats.GetCountries)
			stats.GET("/browsers", d.Stats.GetBrowsers)
			stats.GET("/pages", d.Stats.GetPages)
			stats.GET("/daily", d.Stats.GetDaily)
			stats.GET("/geo", d.Stats.GetGeo)
			stats.GET("/blog-views", d.Stats.GetBlogViews)
			stats.GET("/activity", d.Stats.GetActivity)
			stats.GET("/contact-status", d.Stats.GetContactStatus)
		}
	}
	return r
}
