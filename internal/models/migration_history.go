package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// MigrationStatusCompleted is applied when the caller does not report a status
const MigrationStatusCompleted = "completed"

// LogMigrationData is the payload of a log_migration action
type LogMigrationData struct {
	OperationType      string          `json:"operationType"`
	ClientDeploymentID string          `json:"clientDeploymentId"`
	FromVersion        string          `json:"fromVersion"`
	ToVersion          string          `json:"toVersion"`
	MigrationPlan      json.RawMessage `json:"migrationPlan"`
	Status             string          `json:"status"`
	ExecutionLog       []string        `json:"executionLog"`
}

// MigrationHistory represents a row of the migration_history table
type MigrationHistory struct {
	ID                 string          `json:"id" db:"id"`
	OperationType      string          `json:"operation_type" db:"operation_type"`
	ClientDeploymentID string          `json:"client_deployment_id" db:"client_deployment_id"`
	FromVersion        string          `json:"from_version" db:"from_version"`
	ToVersion          string          `json:"to_version" db:"to_version"`
	MigrationPlan      json.RawMessage `json:"migration_plan" db:"migration_plan"`
	Status             string          `json:"status" db:"status"`
	CompletedAt        time.Time       `json:"completed_at" db:"completed_at"`
	ExecutionLog       []string        `json:"execution_log" db:"execution_log"`
}

// NewMigrationHistory builds a migration_history row, applying the status and
// execution log defaults.
func NewMigrationHistory(data LogMigrationData, now time.Time) *MigrationHistory {
	status := data.Status
	if status == "" {
		status = MigrationStatusCompleted
	}

	executionLog := data.ExecutionLog
	if len(executionLog) == 0 {
		executionLog = []string{fmt.Sprintf("%s operation completed", data.OperationType)}
	}

	plan := data.MigrationPlan
	if len(plan) == 0 {
		plan = json.RawMessage("null")
	}

	return &MigrationHistory{
		OperationType:      data.OperationType,
		ClientDeploymentID: data.ClientDeploymentID,
		FromVersion:        data.FromVersion,
		ToVersion:          data.ToVersion,
		MigrationPlan:      plan,
		Status:             status,
		CompletedAt:        now.UTC(),
		ExecutionLog:       executionLog,
	}
}
