package services

import (
	"context"

	"provisioning-functions/internal/adapters/email"
	"provisioning-functions/internal/models"
)

// DeploymentService writes provisioning audit rows. Store failures never
// surface as errors; they are reported through the result outcome.
type DeploymentService interface {
	RegisterDeployment(ctx context.Context, data models.RegisterDeploymentData) models.WriteResult[models.ClientDeployment]
	LogMigration(ctx context.Context, data models.LogMigrationData) models.WriteResult[models.MigrationHistory]
}

// NotificationService renders and delivers backup notifications
type NotificationService interface {
	Validate(n *models.BackupNotification) error
	Render(n *models.BackupNotification) (*RenderedEmail, error)
	Notify(ctx context.Context, sender email.Sender, n *models.BackupNotification) error
}
