package repositories

import (
	"fmt"
	"strings"

	"provisioning-functions/internal/models"
)

// ValidateClientDeployment checks the columns that are NOT NULL in both schemas
func ValidateClientDeployment(d *models.ClientDeployment) error {
	if d == nil {
		return ValidationError(TableClientDeployments, fmt.Errorf("deployment is nil"))
	}
	if strings.TrimSpace(d.ClientName) == "" {
		return ValidationError(TableClientDeployments, fmt.Errorf("client name is required"))
	}
	return nil
}

// ValidateMigrationHistory checks the columns that are NOT NULL in both schemas
func ValidateMigrationHistory(h *models.MigrationHistory) error {
	if h == nil {
		return ValidationError(TableMigrationHistory, fmt.Errorf("migration history is nil"))
	}
	if strings.TrimSpace(h.OperationType) == "" {
		return ValidationError(TableMigrationHistory, fmt.Errorf("operation type is required"))
	}
	return nil
}
