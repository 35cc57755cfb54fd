package sqlite

import (
	"context"
	"database/sql"
	"time"

	"provisioning-functions/internal/repositories"

	"github.com/sirupsen/logrus"
)

// baseRepository provides query logging shared by the SQLite tables
type baseRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func newBaseRepository(db *sql.DB, logger *logrus.Logger) baseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return baseRepository{
		db:     db,
		logger: logger,
	}
}

// logQuery logs a query with its execution time
func (r *baseRepository) logQuery(operation, table, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     table,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeExec executes a non-query statement and logs the result
func (r *baseRepository) executeExec(ctx context.Context, operation, table, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.logQuery(operation, table, query, args, time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, table, "", err)
	}

	return result, nil
}
