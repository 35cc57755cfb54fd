package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/config"
	"provisioning-functions/internal/repositories"
	"provisioning-functions/internal/repositories/postgres"
	"provisioning-functions/internal/repositories/sqlite"
)

// ErrServiceKeyMissing is returned when no database credential is configured.
// The message is returned to callers as is.
var ErrServiceKeyMissing = errors.New("Service role key not configured. Set SERVICE_ROLE_KEY in function secrets")

// Manager opens the deployment store for the configured driver and keeps it
// for reuse across requests
type Manager struct {
	mu          sync.RWMutex
	cfg         config.DatabaseConfig
	logger      *logrus.Logger
	factory     *ConnectionFactory
	store       repositories.DeploymentStore
	isConnected bool
	lastCheck   time.Time
}

// NewManager creates a new database manager
func NewManager(cfg config.DatabaseConfig, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}

	return &Manager{
		cfg:     cfg,
		logger:  logger,
		factory: NewConnectionFactory(cfg, logger),
	}
}

// Connect opens the store, running the embedded migrations first when
// auto-migration is enabled. Calling Connect on a connected manager is a no-op.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isConnected {
		return nil
	}
	if !m.cfg.HasServiceRoleKey() {
		return ErrServiceKeyMissing
	}
	if err := m.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.WithField("driver", m.cfg.Driver).Info("Connecting to database...")

	if m.cfg.AutoMigrate {
		if err := m.runMigrations(ctx); err != nil {
			return err
		}
	}

	store, err := m.openStore(ctx)
	if err != nil {
		return err
	}

	m.store = store
	m.isConnected = true
	m.lastCheck = time.Now()
	m.logger.Info("Database connection established successfully")
	return nil
}

// Store returns the connected store, connecting first if needed
func (m *Manager) Store(ctx context.Context) (repositories.DeploymentStore, error) {
	m.mu.RLock()
	if m.isConnected {
		store := m.store
		m.mu.RUnlock()
		return store, nil
	}
	m.mu.RUnlock()

	if err := m.Connect(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store, nil
}

// IsConnected returns true once a store has been opened
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isConnected
}

// CheckHealth pings the store
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	store := m.store
	m.mu.RUnlock()

	if store == nil {
		return fmt.Errorf("database not connected")
	}

	err := store.Ping(ctx)

	m.mu.Lock()
	m.lastCheck = time.Now()
	m.mu.Unlock()

	return err
}

// RunMigrations applies the embedded schema on a dedicated handle
func (m *Manager) RunMigrations(ctx context.Context) error {
	return m.runMigrations(ctx)
}

// Close releases the store
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isConnected {
		return nil
	}

	m.logger.Info("Disconnecting from database...")
	err := m.store.Close()
	m.store = nil
	m.isConnected = false

	if err != nil {
		return fmt.Errorf("failed to disconnect from database: %w", err)
	}
	return nil
}

func (m *Manager) openStore(ctx context.Context) (repositories.DeploymentStore, error) {
	switch m.cfg.Driver {
	case config.DriverSQLite:
		db, err := m.factory.OpenSQLite(ctx)
		if err != nil {
			return nil, err
		}
		return sqlite.NewDeploymentStore(db, m.logger), nil
	case config.DriverPostgres, "postgresql":
		pool, err := m.factory.OpenPostgresPool(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool, m.logger), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", m.cfg.Driver)
	}
}

func (m *Manager) runMigrations(ctx context.Context) error {
	db, dialect, err := m.factory.OpenMigrationDB(ctx)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	if err := NewMigrationManager(db, dialect, m.logger).RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
