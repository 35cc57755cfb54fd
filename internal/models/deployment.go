package models

import (
	"fmt"
	"strings"
	"time"
)

// DeploymentStatusHealthy is the status of every newly registered deployment
const DeploymentStatusHealthy = "healthy"

// FallbackIDPrefix marks synthesized deployment records
const FallbackIDPrefix = "fallback-"

// RegisterDeploymentData is the payload of a register_deployment action
type RegisterDeploymentData struct {
	ClientKey      string `json:"clientKey"`
	ClientName     string `json:"clientName"`
	ProjectURL     string `json:"projectUrl"`
	CurrentVersion string `json:"currentVersion"`
}

// ClientDeployment represents a row of the client_deployments table
type ClientDeployment struct {
	ID               string    `json:"id" db:"id"`
	ClientKey        string    `json:"client_key,omitempty" db:"client_key"`
	ClientName       string    `json:"client_name" db:"client_name"`
	ClientURL        string    `json:"client_url" db:"client_url"`
	CurrentVersion   string    `json:"current_version" db:"current_version"`
	DeploymentStatus string    `json:"deployment_status,omitempty" db:"deployment_status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// NewClientDeployment builds a healthy deployment row from the request payload.
// The client key falls back to the client name when the caller omits it.
func NewClientDeployment(data RegisterDeploymentData, now time.Time) *ClientDeployment {
	key := strings.TrimSpace(data.ClientKey)
	if key == "" {
		key = data.ClientName
	}

	return &ClientDeployment{
		ClientKey:        key,
		ClientName:       data.ClientName,
		ClientURL:        data.ProjectURL,
		CurrentVersion:   data.CurrentVersion,
		DeploymentStatus: DeploymentStatusHealthy,
		CreatedAt:        now.UTC(),
	}
}

// NewFallbackDeployment synthesizes the stand-in record returned when the
// insert fails, so the provisioning flow can continue.
func NewFallbackDeployment(data RegisterDeploymentData, now time.Time) *ClientDeployment {
	return &ClientDeployment{
		ID:             fmt.Sprintf("%s%d", FallbackIDPrefix, now.UnixMilli()),
		ClientName:     data.ClientName,
		ClientURL:      data.ProjectURL,
		CurrentVersion: data.CurrentVersion,
		CreatedAt:      now.UTC(),
	}
}

// IsFallback returns true for synthesized records
func (d *ClientDeployment) IsFallback() bool {
	return strings.HasPrefix(d.ID, FallbackIDPrefix)
}
