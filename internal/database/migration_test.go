package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provisioning-functions/internal/config"
)

func TestMigrationManager_SQLite(t *testing.T) {
	ctx := context.Background()
	factory := NewConnectionFactory(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "migrate.db"),
	}, testLogger())

	open := func() *MigrationManager {
		db, dialect, err := factory.OpenMigrationDB(ctx)
		require.NoError(t, err)
		assert.Equal(t, DialectSQLite, dialect)
		return NewMigrationManager(db, dialect, testLogger())
	}

	require.NoError(t, open().RunMigrations())

	validator := open()
	require.NoError(t, validator.ValidateSchema())
	status, err := validator.GetMigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, uint(1), status.Version)
	assert.False(t, status.Dirty)
	assert.True(t, status.Applied)

	// running again is a no-op
	require.NoError(t, open().RunMigrations())

	require.NoError(t, open().RollbackMigration())

	afterRollback := open()
	assert.Error(t, afterRollback.ValidateSchema())
	require.NoError(t, afterRollback.Close())
}

func TestOpenMigrationDB_UnsupportedDriver(t *testing.T) {
	factory := NewConnectionFactory(config.DatabaseConfig{Driver: "oracle"}, testLogger())
	_, _, err := factory.OpenMigrationDB(context.Background())
	assert.Error(t, err)
}

func TestPoolConfig_InjectsServiceKey(t *testing.T) {
	factory := NewConnectionFactory(config.DatabaseConfig{
		Driver:         config.DriverPostgres,
		URL:            "postgres://postgres@db.example.com:5432/postgres?sslmode=require",
		ServiceRoleKey: "service-key",
		MaxConns:       3,
	}, testLogger())

	poolCfg, err := factory.PoolConfig()

	require.NoError(t, err)
	assert.Equal(t, "service-key", poolCfg.ConnConfig.Password)
	assert.Equal(t, "db.example.com", poolCfg.ConnConfig.Host)
	assert.Equal(t, int32(3), poolCfg.MaxConns)
}

func TestPoolConfig_RequiresURL(t *testing.T) {
	factory := NewConnectionFactory(config.DatabaseConfig{Driver: config.DriverPostgres}, testLogger())
	_, err := factory.PoolConfig()
	assert.Error(t, err)
}
