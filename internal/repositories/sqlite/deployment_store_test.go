package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provisioning-functions/internal/config"
	"provisioning-functions/internal/database"
	"provisioning-functions/internal/models"
	"provisioning-functions/internal/repositories"
	"provisioning-functions/internal/repositories/sqlite"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupStore migrates a fresh database file and opens a store on it
func setupStore(t *testing.T) (*sqlite.DeploymentStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	factory := database.NewConnectionFactory(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "store.db"),
	}, quietLogger())

	migrationDB, dialect, err := factory.OpenMigrationDB(ctx)
	require.NoError(t, err)
	require.NoError(t, database.NewMigrationManager(migrationDB, dialect, quietLogger()).RunMigrations())

	db, err := factory.OpenSQLite(ctx)
	require.NoError(t, err)

	store := sqlite.NewDeploymentStore(db, quietLogger())
	t.Cleanup(func() { store.Close() })
	return store, db
}

func TestDeploymentStore_InsertClientDeployment(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	row := models.NewClientDeployment(models.RegisterDeploymentData{
		ClientName:     "acme",
		ProjectURL:     "https://acme.example.com",
		CurrentVersion: "1.4.0",
	}, now)

	stored, err := store.InsertClientDeployment(ctx, row)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.IsFallback())
	assert.Equal(t, "acme", stored.ClientKey)
	assert.Equal(t, models.DeploymentStatusHealthy, stored.DeploymentStatus)
	assert.Empty(t, row.ID, "input row must not be mutated")

	var name, status string
	err = db.QueryRowContext(ctx,
		"SELECT client_name, deployment_status FROM client_deployments WHERE id = ?", stored.ID,
	).Scan(&name, &status)
	require.NoError(t, err)
	assert.Equal(t, "acme", name)
	assert.Equal(t, models.DeploymentStatusHealthy, status)

	count, err := store.CountRows(ctx, repositories.TableClientDeployments)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeploymentStore_InsertClientDeployment_Validation(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.InsertClientDeployment(ctx, &models.ClientDeployment{ClientKey: "k"})
	require.Error(t, err)
	assert.True(t, repositories.IsValidation(err))

	_, err = store.InsertClientDeployment(ctx, nil)
	assert.True(t, repositories.IsValidation(err))

	count, err := store.CountRows(ctx, repositories.TableClientDeployments)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeploymentStore_InsertMigrationHistory(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	row := models.NewMigrationHistory(models.LogMigrationData{
		OperationType:      "upgrade",
		ClientDeploymentID: "dep-1",
		FromVersion:        "1.0.0",
		ToVersion:          "1.1.0",
		MigrationPlan:      json.RawMessage(`{"steps":["schema"]}`),
	}, time.Now())

	stored, err := store.InsertMigrationHistory(ctx, row)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)

	var plan, executionLog string
	err = db.QueryRowContext(ctx,
		"SELECT migration_plan, execution_log FROM migration_history WHERE id = ?", stored.ID,
	).Scan(&plan, &executionLog)
	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":["schema"]}`, plan)
	assert.JSONEq(t, `["upgrade operation completed"]`, executionLog)
}

func TestDeploymentStore_InsertMigrationHistory_Validation(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.InsertMigrationHistory(context.Background(), &models.MigrationHistory{})
	require.Error(t, err)
	assert.True(t, repositories.IsValidation(err))
}

func TestDeploymentStore_InsertFailsWithoutSchema(t *testing.T) {
	factory := database.NewConnectionFactory(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "empty.db"),
	}, quietLogger())
	db, err := factory.OpenSQLite(context.Background())
	require.NoError(t, err)

	store := sqlite.NewDeploymentStore(db, quietLogger())
	defer store.Close()

	_, err = store.InsertClientDeployment(context.Background(), &models.ClientDeployment{ClientName: "acme"})
	require.Error(t, err)

	var repoErr *repositories.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "insert", repoErr.Op)
	assert.Equal(t, repositories.TableClientDeployments, repoErr.Entity)
}

func TestDeploymentStore_CountRowsUnknownTable(t *testing.T) {
	store, _ := setupStore(t)

	_, err := store.CountRows(context.Background(), "users")
	assert.True(t, repositories.IsValidation(err))
}

func TestDeploymentStore_Ping(t *testing.T) {
	store, _ := setupStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
