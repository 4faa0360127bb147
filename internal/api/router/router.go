package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sivaogeti/school-management/config"
	"github.com/sivaogeti/school-management/internal/api/handler"
	"github.com/sivaogeti/school-management/internal/api/middleware"
	"github.com/sivaogeti/school-management/pkg/redis"
)

// Setup builds the Gin engine with all routes and middleware attached.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Writes are kept behind the schedule-office roles; reads stay open to
	// every signed-in role so students and teachers can pull their own view.
	scheduleWrite := middleware.RoleAuth(middleware.RoleAdmin, middleware.RolePrincipal, middleware.RoleFrontOffice)
	writeLimit := middleware.RateLimit(rdb, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		// timetable module
		schedule := v1.Group("/schedule")
		{
			schedule.GET("/week", h.Timetable.GetWeek)
			schedule.GET("/today", h.Timetable.GetToday)
			schedule.GET("/class-sections", h.Timetable.ListClassSections)
			schedule.GET("/week/export", h.Timetable.ExportWeek)
			schedule.PUT("/slots", scheduleWrite, writeLimit, h.Timetable.DefineSlots)
			schedule.PUT("/grid-cell", scheduleWrite, writeLimit, h.Timetable.AssignSubject)
		}

		// event module
		events := v1.Group("/events")
		{
			events.GET("", h.Event.ListEvents)
			events.GET("/export.ics", h.Event.ExportEvents)
			events.GET("/:id", h.Event.GetEvent)
			events.POST("", scheduleWrite, writeLimit, h.Event.CreateEvent)
			events.PUT("/:id", scheduleWrite, writeLimit, h.Event.UpdateEvent)
			events.DELETE("/:id", scheduleWrite, writeLimit, h.Event.DeleteEvent)
		}
	}

	return r
}
