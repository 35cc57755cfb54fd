package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/models"
	"provisioning-functions/internal/repositories"
)

// deploymentService implements the DeploymentService interface
type deploymentService struct {
	store  repositories.DeploymentStore
	logger *logrus.Logger
	now    func() time.Time
}

// NewDeploymentService creates a new deployment service instance
func NewDeploymentService(store repositories.DeploymentStore, logger *logrus.Logger) DeploymentService {
	return newDeploymentService(store, logger, time.Now)
}

func newDeploymentService(store repositories.DeploymentStore, logger *logrus.Logger, now func() time.Time) *deploymentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &deploymentService{
		store:  store,
		logger: logger,
		now:    now,
	}
}

// RegisterDeployment inserts a healthy deployment row. A failed insert is
// logged and answered with a fallback record instead of an error.
func (s *deploymentService) RegisterDeployment(ctx context.Context, data models.RegisterDeploymentData) models.WriteResult[models.ClientDeployment] {
	now := s.now()

	stored, err := s.store.InsertClientDeployment(ctx, models.NewClientDeployment(data, now))
	if err != nil {
		fallback := models.NewFallbackDeployment(data, now)
		s.logger.WithFields(logrus.Fields{
			"client_name": data.ClientName,
			"fallback_id": fallback.ID,
			"error":       err.Error(),
		}).Error("Failed to register deployment, returning fallback record")
		return models.DegradedFallback(fallback)
	}

	s.logger.WithFields(logrus.Fields{
		"deployment_id": stored.ID,
		"client_name":   stored.ClientName,
		"version":       stored.CurrentVersion,
	}).Info("Deployment registered")
	return models.Persisted(stored)
}

// LogMigration inserts a migration_history row. A failed insert is logged and
// answered with an empty LoggingFailed result.
func (s *deploymentService) LogMigration(ctx context.Context, data models.LogMigrationData) models.WriteResult[models.MigrationHistory] {
	stored, err := s.store.InsertMigrationHistory(ctx, models.NewMigrationHistory(data, s.now()))
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"operation_type":       data.OperationType,
			"client_deployment_id": data.ClientDeploymentID,
			"error":                err.Error(),
		}).Error("Failed to log migration")
		return models.LoggingFailed[models.MigrationHistory]()
	}

	s.logger.WithFields(logrus.Fields{
		"migration_id":   stored.ID,
		"operation_type": stored.OperationType,
		"from_version":   stored.FromVersion,
		"to_version":     stored.ToVersion,
	}).Info("Migration logged")
	return models.Persisted(stored)
}
