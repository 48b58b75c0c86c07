package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/incidentdesk/incident-service/handlers"
	"github.com/incidentdesk/incident-service/internal/config"
	"github.com/incidentdesk/incident-service/internal/incident/handler"
	"github.com/incidentdesk/incident-service/internal/incident/service"
	"github.com/incidentdesk/incident-service/pkg/middleware"
)

// NewRouter builds the gin engine: global middleware, health and docs
// endpoints, Prometheus metrics and the incident API under cfg.Server.BasePath.
func NewRouter(cfg *config.Config, svc service.Service, checks map[string]handlers.Check) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORSMiddleware(cfg.CORS.AllowOrigins))

	handlers.RegisterHealth(r, time.Now(), checks)
	handlers.RegisterSwagger(r, cfg.Server.BasePath)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterIncidentRoutes(r.Group(cfg.Server.BasePath), svc)
	return r
}
