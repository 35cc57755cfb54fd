package lambda

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/adapters/email"
	"provisioning-functions/internal/config"
	"provisioning-functions/internal/database"
	"provisioning-functions/internal/repositories"
)

// ConnectionManager keeps the deployment store and the email sender alive
// across warm invocations. Both are created on first use; a failed creation
// is retried on the next call.
type ConnectionManager struct {
	mu     sync.RWMutex
	config *config.Config
	logger *logrus.Logger
	db     *database.Manager
	sender email.Sender

	newSender func(ctx context.Context, cfg config.EmailConfig) (email.Sender, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance.
// cfg and logger are only used by the first call.
func GetConnectionManager(cfg *config.Config, logger *logrus.Logger) *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(cfg, logger)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager for cfg
func NewConnectionManager(cfg *config.Config, logger *logrus.Logger) *ConnectionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionManager{
		config:    cfg,
		logger:    logger,
		db:        database.NewManager(cfg.Database, logger),
		newSender: email.NewSender,
	}
}

// Store returns the deployment store. It fails with database.ErrServiceKeyMissing
// when no service role key is configured.
func (cm *ConnectionManager) Store(ctx context.Context) (repositories.DeploymentStore, error) {
	store, err := cm.db.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// ServiceKeyConfigured reports whether the database credential is present.
// It never opens a connection.
func (cm *ConnectionManager) ServiceKeyConfigured() bool {
	return cm.config.Database.HasServiceRoleKey()
}

// EmailConfigured reports whether the email provider credential is present
func (cm *ConnectionManager) EmailConfigured() bool {
	return cm.config.Email.IsConfigured()
}

// Sender returns the email sender. It fails with email.ErrNotConfigured when
// the provider credential is missing.
func (cm *ConnectionManager) Sender(ctx context.Context) (email.Sender, error) {
	cm.mu.RLock()
	if cm.sender != nil {
		sender := cm.sender
		cm.mu.RUnlock()
		return sender, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.sender == nil {
		sender, err := cm.newSender(ctx, cm.config.Email)
		if err != nil {
			return nil, err
		}
		cm.logger.WithField("provider", sender.Provider()).Info("Email sender initialized")
		cm.sender = sender
	}
	return cm.sender, nil
}

// IsHealthy checks if the connection manager is healthy
func (cm *ConnectionManager) IsHealthy(ctx context.Context) bool {
	if !cm.db.IsConnected() {
		return false
	}
	return cm.db.CheckHealth(ctx) == nil
}

// Cleanup releases the database connection
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	cm.sender = nil
	cm.mu.Unlock()

	return cm.db.Close()
}
