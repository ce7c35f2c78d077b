package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arnavshah/fence-patrol-api/pkg/database"
)

// Version is reported by the banner route
const Version = "1.0.0"

// NewRouter wires every route onto a new gin engine. Cross-origin requests
// are allowed from corsOrigins only; an empty list disables CORS handling.
func NewRouter(h *Handler, corsOrigins []string, gatherer prometheus.Gatherer) *gin.Engine {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), h.RequestLogger())
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
			ExposeHeaders:    []string{RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Fence Patrol API",
			"version": Version,
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.POST("/api/login", h.Login)

	// Roster Endpoints
	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/volunteers", h.ListVolunteers)
		api.POST("/update_status", h.UpdateStatus)
		api.GET("/assignments", h.Assignments)
		api.GET("/locations", h.Locations)
		api.GET("/fence-points", h.ListFencePoints)

		api.POST("/volunteers", RequireRole(database.RoleAdmin), h.AddVolunteer)
		api.DELETE("/volunteers/:id", RequireRole(database.RoleAdmin), h.RemoveVolunteer)
		api.PUT("/fence-points/:id", RequireRole(database.RoleAdmin), h.SetImportance)
	}

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware(), RequireRole(database.RoleAdmin))
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Integration Endpoints
	integrations := r.Group("/integrations")
	integrations.Use(h.APIKeyMiddleware())
	{
		integrations.POST("/assignments", h.AssignmentsJSON)
		integrations.POST("/assignments/csv", h.AssignmentsCSV)
		integrations.POST("/groups", h.GroupsJSON)
		integrations.POST("/validate", h.ValidateSnapshot)
		integrations.GET("/usage", h.GetMyUsage)
	}

	return r
}
