package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/config"
	"provisioning-functions/internal/database"
)

func main() {
	var (
		driver  = flag.String("driver", "", "Database driver: postgres or sqlite (defaults to DB_DRIVER)")
		dbPath  = flag.String("db", "", "SQLite database file path (defaults to DB_SQLITE_PATH)")
		action  = flag.String("action", "up", "Migration action: up, down, status, validate")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := config.NewLogger(cfg.Log)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	dbCfg := cfg.Database
	if *driver != "" {
		dbCfg.Driver = *driver
	}
	if *dbPath != "" {
		dbCfg.SQLitePath = *dbPath
	}
	if err := dbCfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid database configuration")
	}

	logger.WithFields(logrus.Fields{
		"driver": dbCfg.Driver,
		"action": *action,
	}).Info("Starting migration tool")

	migrationManager, err := openMigrationManager(dbCfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	switch *action {
	case "up":
		if err := migrationManager.RunMigrations(); err != nil {
			logger.WithError(err).Fatal("Migration up failed")
		}
	case "down":
		if err := migrationManager.RollbackMigration(); err != nil {
			logger.WithError(err).Fatal("Migration down failed")
		}
	case "status":
		if err := showMigrationStatus(migrationManager); err != nil {
			logger.WithError(err).Fatal("Failed to get migration status")
		}
	case "validate":
		if err := validateSchema(migrationManager); err != nil {
			logger.WithError(err).Fatal("Schema validation failed")
		}
	default:
		migrationManager.Close()
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate")
	}

	logger.Info("Migration tool completed successfully")
}

func openMigrationManager(cfg config.DatabaseConfig, logger *logrus.Logger) (*database.MigrationManager, error) {
	factory := database.NewConnectionFactory(cfg, logger)
	db, dialect, err := factory.OpenMigrationDB(context.Background())
	if err != nil {
		return nil, err
	}
	return database.NewMigrationManager(db, dialect, logger), nil
}

func showMigrationStatus(m *database.MigrationManager) error {
	status, err := m.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	fmt.Printf("  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))

	return nil
}

func validateSchema(m *database.MigrationManager) error {
	defer m.Close()

	if err := m.ValidateSchema(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	fmt.Println("Schema validation passed successfully")
	return nil
}
