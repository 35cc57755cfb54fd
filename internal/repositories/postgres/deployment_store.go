package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/models"
	"provisioning-functions/internal/repositories"
)

// DeploymentStore implements repositories.DeploymentStore on the hosted PostgreSQL database.
type DeploymentStore struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

var _ repositories.DeploymentStore = (*DeploymentStore)(nil)

// New constructs a DeploymentStore.
func New(pool *pgxpool.Pool, logger *logrus.Logger) *DeploymentStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &DeploymentStore{pool: pool, logger: logger}
}

// InsertClientDeployment inserts a client_deployments row and returns it as stored.
func (s *DeploymentStore) InsertClientDeployment(ctx context.Context, deployment *models.ClientDeployment) (*models.ClientDeployment, error) {
	if err := repositories.ValidateClientDeployment(deployment); err != nil {
		return nil, err
	}

	const query = `INSERT INTO client_deployments
		(client_key, client_name, client_url, current_version, deployment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, client_key, client_name, COALESCE(client_url, ''),
			COALESCE(current_version, ''), deployment_status, created_at`

	start := time.Now()
	var out models.ClientDeployment
	err := s.pool.QueryRow(ctx, query,
		deployment.ClientKey,
		deployment.ClientName,
		deployment.ClientURL,
		deployment.CurrentVersion,
		deployment.DeploymentStatus,
		deployment.CreatedAt,
	).Scan(&out.ID, &out.ClientKey, &out.ClientName, &out.ClientURL, &out.CurrentVersion, &out.DeploymentStatus, &out.CreatedAt)
	s.logQuery("insert", repositories.TableClientDeployments, time.Since(start), err)
	if err != nil {
		return nil, translate("insert", repositories.TableClientDeployments, err)
	}

	return &out, nil
}

// InsertMigrationHistory inserts a migration_history row and returns it as stored.
func (s *DeploymentStore) InsertMigrationHistory(ctx context.Context, history *models.MigrationHistory) (*models.MigrationHistory, error) {
	if err := repositories.ValidateMigrationHistory(history); err != nil {
		return nil, err
	}

	const query = `INSERT INTO migration_history
		(operation_type, client_deployment_id, from_version, to_version, migration_plan, status, completed_at, execution_log)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, operation_type, COALESCE(client_deployment_id, ''), COALESCE(from_version, ''),
			COALESCE(to_version, ''), migration_plan, status, completed_at, execution_log`

	start := time.Now()
	var out models.MigrationHistory
	err := s.pool.QueryRow(ctx, query,
		history.OperationType,
		history.ClientDeploymentID,
		history.FromVersion,
		history.ToVersion,
		history.MigrationPlan,
		history.Status,
		history.CompletedAt,
		history.ExecutionLog,
	).Scan(&out.ID, &out.OperationType, &out.ClientDeploymentID, &out.FromVersion, &out.ToVersion,
		&out.MigrationPlan, &out.Status, &out.CompletedAt, &out.ExecutionLog)
	s.logQuery("insert", repositories.TableMigrationHistory, time.Since(start), err)
	if err != nil {
		return nil, translate("insert", repositories.TableMigrationHistory, err)
	}

	return &out, nil
}

// Ping tests the pool.
func (s *DeploymentStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return repositories.ConnectionError(err)
	}
	return nil
}

// Close releases the pool.
func (s *DeploymentStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *DeploymentStore) logQuery(operation, table string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     table,
		"duration":  duration,
	}
	if err != nil {
		fields["error"] = err.Error()
		s.logger.WithFields(fields).Error("Query failed")
		return
	}
	s.logger.WithFields(fields).Debug("Query executed")
}

// translate maps pgx errors onto repository errors. Class 23 is
// integrity_constraint_violation.
func translate(op, table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		return repositories.ConstraintError(table, pgErr.ConstraintName, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return repositories.ConnectionError(err)
	}
	return repositories.NewRepositoryError(op, table, "", err)
}
