package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/config"
	"provisioning-functions/internal/handlers"
	"provisioning-functions/internal/metrics"
	"provisioning-functions/internal/services"
	"provisioning-functions/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *logrus.Logger
	Connections   *lambda.ConnectionManager
	Deployments   *handlers.DeploymentHandler
	Notifications *handlers.NotificationHandler
}

// NewContainer creates a new dependency injection container. Database and
// email clients are created lazily by the connection manager on first use.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := config.NewLogger(cfg.Log)
	return newContainer(cfg, logger, lambda.NewConnectionManager(cfg, logger)), nil
}

// NewLambdaContainer creates a container backed by the process-wide
// connection manager, so warm invocations reuse connections
func NewLambdaContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := config.NewLogger(cfg.Log)
	return newContainer(cfg, logger, lambda.GetConnectionManager(cfg, logger)), nil
}

func newContainer(cfg *config.Config, logger *logrus.Logger, connections *lambda.ConnectionManager) *Container {
	metrics.Register()

	notifications := services.NewNotificationService(cfg.Email.From, logger)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Connections:   connections,
		Deployments:   handlers.NewDeploymentHandler(connections, logger),
		Notifications: handlers.NewNotificationHandler(connections, notifications, logger),
	}
}

// Router builds the gin engine serving both functions
func (c *Container) Router() *gin.Engine {
	router := gin.New()
	handlers.SetupMiddleware(router, c.Logger)
	handlers.SetupRoutes(router, &handlers.RouterConfig{
		Deployments:   c.Deployments,
		Notifications: c.Notifications,
		Healthy:       c.Connections.IsHealthy,
	})
	return router
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Connections != nil {
		if err := c.Connections.Cleanup(); err != nil {
			return fmt.Errorf("failed to close connections: %w", err)
		}
	}
	return nil
}
