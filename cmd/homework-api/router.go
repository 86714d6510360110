package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/handler"
	internalmiddleware "github.com/noah-isme/homework-tracker-api/internal/middleware"
	"github.com/noah-isme/homework-tracker-api/internal/service"
	"github.com/noah-isme/homework-tracker-api/pkg/config"
	"github.com/noah-isme/homework-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/homework-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/homework-tracker-api/pkg/middleware/requestid"
)

type handlers struct {
	homeworks   *handler.HomeworkHandler
	subscribers *handler.SubscriberHandler
	emails      *handler.EmailHandler
	reminders   *handler.ReminderHandler
	metrics     *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", h.metrics.Summary)

	homeworks := api.Group("/homeworks")
	homeworks.GET("", h.homeworks.List)
	homeworks.POST("", h.homeworks.Create)
	homeworks.GET("/:id", h.homeworks.Get)
	homeworks.DELETE("/:id", h.homeworks.Delete)
	homeworks.POST("/:id/remind", h.reminders.RemindHomework)

	subscribers := api.Group("/subscribers")
	subscribers.GET("", h.subscribers.List)
	subscribers.POST("", h.subscribers.Subscribe)
	subscribers.DELETE("/:id", h.subscribers.UnsubscribeAll)
	subscribers.POST("/:id/unsubscribe", h.subscribers.Unsubscribe)

	emails := api.Group("/emails")
	emails.GET("", h.emails.List)
	emails.POST("", h.emails.Create)

	api.POST("/reminders/run", h.reminders.RunAll)
	api.POST("/sweeper/run", h.reminders.Sweep)

	return r
}
