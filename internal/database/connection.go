package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/config"
)

// ConnectionFactory opens the database handles used by the stores and the migrator
type ConnectionFactory struct {
	cfg    config.DatabaseConfig
	logger *logrus.Logger
}

// NewConnectionFactory creates a new connection factory
func NewConnectionFactory(cfg config.DatabaseConfig, logger *logrus.Logger) *ConnectionFactory {
	if logger == nil {
		logger = logrus.New()
	}
	return &ConnectionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// PoolConfig parses DATABASE_URL and injects the service role key as the password
func (f *ConnectionFactory) PoolConfig() (*pgxpool.Config, error) {
	if strings.TrimSpace(f.cfg.URL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the %s driver", config.DriverPostgres)
	}

	poolCfg, err := pgxpool.ParseConfig(f.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}

	if f.cfg.ServiceRoleKey != "" {
		poolCfg.ConnConfig.Password = f.cfg.ServiceRoleKey
	}
	if f.cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(f.cfg.MaxConns)
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	return poolCfg, nil
}

// OpenPostgresPool creates a pgx pool. The pool dials lazily, so an
// unreachable database surfaces on the first query rather than here.
func (f *ConnectionFactory) OpenPostgresPool(ctx context.Context) (*pgxpool.Pool, error) {
	poolCfg, err := f.PoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"driver":    config.DriverPostgres,
		"host":      poolCfg.ConnConfig.Host,
		"database":  poolCfg.ConnConfig.Database,
		"max_conns": poolCfg.MaxConns,
	}).Info("Postgres pool created")

	return pool, nil
}

// OpenPostgresSQL opens a database/sql handle over pgx, for golang-migrate
func (f *ConnectionFactory) OpenPostgresSQL() (*sql.DB, error) {
	poolCfg, err := f.PoolConfig()
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*poolCfg.ConnConfig), nil
}

// OpenSQLite opens (creating if needed) the SQLite database file
func (f *ConnectionFactory) OpenSQLite(ctx context.Context) (*sql.DB, error) {
	dbPath := f.cfg.SQLitePath
	if dbPath == "" {
		dbPath = "./data/provisioning.db"
	}

	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute database path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", absPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite works best with single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	f.logger.WithField("db_path", absPath).Info("SQLite connection established")
	return db, nil
}

// OpenMigrationDB opens a dedicated handle for the migrator of the configured driver.
// The migrator closes it when done.
func (f *ConnectionFactory) OpenMigrationDB(ctx context.Context) (*sql.DB, Dialect, error) {
	switch f.cfg.Driver {
	case config.DriverSQLite:
		db, err := f.OpenSQLite(ctx)
		return db, DialectSQLite, err
	case config.DriverPostgres, "postgresql":
		db, err := f.OpenPostgresSQL()
		return db, DialectPostgres, err
	default:
		return nil, "", fmt.Errorf("unsupported database driver: %s", f.cfg.Driver)
	}
}
