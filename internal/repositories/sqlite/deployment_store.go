package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/models"
	"provisioning-functions/internal/repositories"
)

// DeploymentStore implements repositories.DeploymentStore on a local SQLite file
type DeploymentStore struct {
	baseRepository
}

var _ repositories.DeploymentStore = (*DeploymentStore)(nil)

var errUnknownTable = errors.New("unknown table")

// NewDeploymentStore creates a new SQLite deployment store
func NewDeploymentStore(db *sql.DB, logger *logrus.Logger) *DeploymentStore {
	return &DeploymentStore{baseRepository: newBaseRepository(db, logger)}
}

// InsertClientDeployment inserts a client_deployments row
func (s *DeploymentStore) InsertClientDeployment(ctx context.Context, deployment *models.ClientDeployment) (*models.ClientDeployment, error) {
	if err := repositories.ValidateClientDeployment(deployment); err != nil {
		return nil, err
	}

	row := *deployment
	row.ID = uuid.New().String()

	query := `
		INSERT INTO client_deployments (
			id, client_key, client_name, client_url, current_version, deployment_status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.executeExec(ctx, "insert", repositories.TableClientDeployments, query,
		row.ID,
		row.ClientKey,
		row.ClientName,
		row.ClientURL,
		row.CurrentVersion,
		row.DeploymentStatus,
		row.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "constraint failed") {
			return nil, repositories.ConstraintError(repositories.TableClientDeployments, "client_deployments", err)
		}
		return nil, err
	}

	return &row, nil
}

// InsertMigrationHistory inserts a migration_history row
func (s *DeploymentStore) InsertMigrationHistory(ctx context.Context, history *models.MigrationHistory) (*models.MigrationHistory, error) {
	if err := repositories.ValidateMigrationHistory(history); err != nil {
		return nil, err
	}

	executionLog, err := json.Marshal(history.ExecutionLog)
	if err != nil {
		return nil, repositories.ValidationError(repositories.TableMigrationHistory, err)
	}

	row := *history
	row.ID = uuid.New().String()

	query := `
		INSERT INTO migration_history (
			id, operation_type, client_deployment_id, from_version, to_version,
			migration_plan, status, completed_at, execution_log
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.executeExec(ctx, "insert", repositories.TableMigrationHistory, query,
		row.ID,
		row.OperationType,
		row.ClientDeploymentID,
		row.FromVersion,
		row.ToVersion,
		string(row.MigrationPlan),
		row.Status,
		row.CompletedAt,
		string(executionLog),
	)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// CountRows returns the number of rows in one of the audit tables
func (s *DeploymentStore) CountRows(ctx context.Context, table string) (int, error) {
	var query string
	switch table {
	case repositories.TableClientDeployments:
		query = "SELECT COUNT(*) FROM client_deployments"
	case repositories.TableMigrationHistory:
		query = "SELECT COUNT(*) FROM migration_history"
	default:
		return 0, repositories.ValidationError(table, errUnknownTable)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, repositories.NewRepositoryError("count", table, "", err)
	}
	return count, nil
}

// Ping tests the database connection
func (s *DeploymentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return repositories.ConnectionError(err)
	}
	return nil
}

// Close closes the database connection
func (s *DeploymentStore) Close() error {
	return s.db.Close()
}
