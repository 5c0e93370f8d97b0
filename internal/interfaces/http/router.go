// Package http wires the gin engine, middleware, and route groups.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	appcheckin "safyra/internal/application/checkin"
	appcontact "safyra/internal/application/contact"
	appincident "safyra/internal/application/incident"
	appsos "safyra/internal/application/sos"
	"safyra/internal/infrastructure/config"
	"safyra/internal/infrastructure/detection"
	"safyra/internal/interfaces/http/handlers"
	"safyra/internal/interfaces/http/middleware"
	"safyra/internal/shared/logger"
)

// Services bundles the application services the router exposes.
type Services struct {
	Checkin  *appcheckin.Service
	Contact  *appcontact.Service
	SOS      *appsos.Service
	Incident *appincident.Service
}

// Router represents the HTTP router configuration
type Router struct {
	engine          *gin.Engine
	panicHandler    *handlers.PanicHandler
	contactHandler  *handlers.ContactHandler
	sosHandler      *handlers.SOSHandler
	incidentHandler *handlers.IncidentHandler
	cameraHandler   *handlers.CameraHandler
	healthHandler   *handlers.HealthHandler
	rateLimiter     *middleware.RateLimiter
	logger          logger.Interface
	cfg             *config.Config
}

// NewRouter creates a new HTTP router with all dependencies.
// redisClient may be nil when Redis is not configured.
func NewRouter(
	services Services,
	detectionClient *detection.Client,
	redisClient *redis.Client,
	cfg *config.Config,
	log logger.Interface,
) *Router {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	return &Router{
		engine:          engine,
		panicHandler:    handlers.NewPanicHandler(services.Checkin, log),
		contactHandler:  handlers.NewContactHandler(services.Contact, log),
		sosHandler:      handlers.NewSOSHandler(services.SOS, log),
		incidentHandler: handlers.NewIncidentHandler(services.Incident, log),
		cameraHandler:   handlers.NewCameraHandler(detectionClient, log),
		healthHandler:   handlers.NewHealthHandler(detectionClient, log),
		rateLimiter:     middleware.NewRateLimiter(redisClient, 120, 1*time.Minute),
		logger:          log,
		cfg:             cfg,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.healthHandler.Check)

	v1 := r.engine.Group("/api/v1")

	panicGroup := v1.Group("/panic")
	{
		panicGroup.POST("/sessions", r.rateLimiter.Limit(), r.panicHandler.Start)
		panicGroup.GET("/sessions", r.panicHandler.History)
		panicGroup.GET("/sessions/current", r.panicHandler.Current)
		panicGroup.POST("/sessions/:id/tap", r.panicHandler.ConfirmSafety)
		panicGroup.POST("/sessions/:id/end", r.panicHandler.End)
		panicGroup.POST("/sessions/:id/trigger", r.panicHandler.TriggerManual)
		panicGroup.DELETE("/sessions/:id", r.panicHandler.Dismiss)
	}

	contacts := v1.Group("/contacts")
	{
		contacts.POST("", r.contactHandler.Create)
		contacts.GET("", r.contactHandler.List)
		contacts.GET("/:id", r.contactHandler.Get)
		contacts.PUT("/:id", r.contactHandler.Update)
		contacts.DELETE("/:id", r.contactHandler.Delete)
	}

	sosGroup := v1.Group("/sos")
	{
		sosGroup.POST("/recordings", r.rateLimiter.Limit(), r.sosHandler.Save)
		sosGroup.GET("/recordings", r.sosHandler.List)
		sosGroup.GET("/recordings/:id", r.sosHandler.Get)
		sosGroup.POST("/recordings/:id/sent", r.sosHandler.MarkSent)
		sosGroup.DELETE("/recordings/:id", r.sosHandler.Delete)
	}

	incidents := v1.Group("/incidents")
	{
		incidents.GET("", r.incidentHandler.List)
		incidents.GET("/stats", r.incidentHandler.Stats)
	}

	camera := v1.Group("/camera")
	{
		camera.POST("/start", r.cameraHandler.Start)
		camera.POST("/stop", r.cameraHandler.Stop)
		camera.GET("/status", r.cameraHandler.Status)
		camera.GET("/stream-url", r.cameraHandler.StreamURL)
		camera.GET("/alerts", r.cameraHandler.Alerts)
		camera.GET("/alerts/summary", r.cameraHandler.AlertsSummary)
		camera.GET("/recordings", r.cameraHandler.Recordings)
		camera.GET("/recordings/:filename/url", r.cameraHandler.RecordingURL)
		camera.DELETE("/recordings/:filename", r.cameraHandler.DeleteRecording)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
