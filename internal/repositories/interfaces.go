package repositories

import (
	"context"

	"provisioning-functions/internal/models"
)

// Table names shared by every store implementation
const (
	TableClientDeployments = "client_deployments"
	TableMigrationHistory  = "migration_history"
)

// DeploymentStore persists provisioning audit rows.
// Insert methods return the row as stored, including generated columns.
type DeploymentStore interface {
	InsertClientDeployment(ctx context.Context, deployment *models.ClientDeployment) (*models.ClientDeployment, error)
	InsertMigrationHistory(ctx context.Context, history *models.MigrationHistory) (*models.MigrationHistory, error)
	Ping(ctx context.Context) error
	Close() error
}
