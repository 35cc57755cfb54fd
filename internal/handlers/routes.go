package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"provisioning-functions/internal/middleware"
	"provisioning-functions/pkg/lambda"
)

// Function routes, matching the paths the functions are deployed under
const (
	FunctionsBasePath      = "/functions/v1"
	DeploymentWriterPath   = "/deployment-writer"
	BackupNotificationPath = "/send-backup-notification"
	maxRequestBodyBytes    = 1 << 20
	slowRequestThreshold   = time.Second
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Deployments   *DeploymentHandler
	Notifications *NotificationHandler
	// Healthy reports whether the database connection is usable; nil means unchecked
	Healthy func(ctx context.Context) bool
}

// SetupRoutes configures all routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		database := "unchecked"
		if config.Healthy != nil {
			database = "down"
			if config.Healthy(c.Request.Context()) {
				database = "up"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  "provisioning-functions",
			"database": database,
		})
	})

	functions := router.Group(FunctionsBasePath)
	{
		writer := Wrap(config.Deployments.HandleDeploymentWriter)
		functions.POST(DeploymentWriterPath, writer)
		functions.OPTIONS(DeploymentWriterPath, writer)

		notifier := Wrap(config.Notifications.HandleBackupNotification)
		functions.POST(BackupNotificationPath, notifier)
		functions.OPTIONS(BackupNotificationPath, notifier)
	}
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, logger *logrus.Logger) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestSizeLimit(maxRequestBodyBytes))
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.PerformanceMonitor(logger, slowRequestThreshold))
}

// Wrap serves a framework-agnostic handler through gin
func Wrap(h lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		headers := make(map[string]string, len(c.Request.Header))
		for key := range c.Request.Header {
			headers[key] = c.Request.Header.Get(key)
		}
		query := make(map[string]string)
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		resp, err := h(c.Request.Context(), &lambda.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     headers,
			QueryParams: query,
			Body:        body,
			RequestID:   c.GetString(middleware.RequestIDKey),
		})
		if err != nil || resp == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
			return
		}

		for key, value := range resp.Headers {
			c.Header(key, value)
		}
		c.Status(resp.StatusCode)
		if len(resp.Body) > 0 {
			_, _ = c.Writer.Write(resp.Body)
		} else {
			c.Writer.WriteHeaderNow()
		}
	}
}
