package models

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Action
		wantErr bool
	}{
		{name: "register", raw: "register_deployment", want: ActionRegisterDeployment},
		{name: "log migration", raw: "log_migration", want: ActionLogMigration},
		{name: "unknown", raw: "delete_everything", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "case sensitive", raw: "Register_Deployment", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAction(%q) expected error", tt.raw)
				}
				if !errors.Is(err, ErrUnknownAction) {
					t.Errorf("ParseAction(%q) error %v is not ErrUnknownAction", tt.raw, err)
				}
				if err.Error() != "Unknown action: "+tt.raw {
					t.Errorf("ParseAction(%q) message = %q", tt.raw, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseAction(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewClientDeployment(t *testing.T) {
	data := RegisterDeploymentData{
		ClientName:     "acme",
		ProjectURL:     "https://acme.example.com",
		CurrentVersion: "1.4.0",
	}

	d := NewClientDeployment(data, testNow)
	if d.ClientKey != "acme" {
		t.Errorf("ClientKey = %q, want client name fallback", d.ClientKey)
	}
	if d.DeploymentStatus != DeploymentStatusHealthy {
		t.Errorf("DeploymentStatus = %q, want %q", d.DeploymentStatus, DeploymentStatusHealthy)
	}
	if !d.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", d.CreatedAt, testNow)
	}
	if d.ID != "" {
		t.Errorf("ID = %q, want empty before insert", d.ID)
	}

	data.ClientKey = "acme-key"
	if got := NewClientDeployment(data, testNow).ClientKey; got != "acme-key" {
		t.Errorf("ClientKey = %q, want acme-key", got)
	}
}

func TestNewFallbackDeployment(t *testing.T) {
	d := NewFallbackDeployment(RegisterDeploymentData{
		ClientName:     "acme",
		ProjectURL:     "https://acme.example.com",
		CurrentVersion: "1.4.0",
	}, testNow)

	if !regexp.MustCompile(`^fallback-\d+$`).MatchString(d.ID) {
		t.Errorf("ID = %q does not match fallback-<millis>", d.ID)
	}
	if d.ID != "fallback-1773480413000" {
		t.Errorf("ID = %q, want millisecond timestamp suffix", d.ID)
	}
	if !d.IsFallback() {
		t.Error("IsFallback() = false")
	}
	if d.ClientName != "acme" || d.ClientURL != "https://acme.example.com" || d.CurrentVersion != "1.4.0" {
		t.Errorf("fallback did not echo the payload: %+v", d)
	}

	stored := &ClientDeployment{ID: "5b0c6d4e-0000-4000-8000-000000000000"}
	if stored.IsFallback() {
		t.Error("stored record reported as fallback")
	}
}

func TestNewMigrationHistory_Defaults(t *testing.T) {
	h := NewMigrationHistory(LogMigrationData{OperationType: "upgrade"}, testNow)

	if h.Status != MigrationStatusCompleted {
		t.Errorf("Status = %q, want %q", h.Status, MigrationStatusCompleted)
	}
	if len(h.ExecutionLog) != 1 || h.ExecutionLog[0] != "upgrade operation completed" {
		t.Errorf("ExecutionLog = %v", h.ExecutionLog)
	}
	if string(h.MigrationPlan) != "null" {
		t.Errorf("MigrationPlan = %s, want null", h.MigrationPlan)
	}
	if !h.CompletedAt.Equal(testNow) {
		t.Errorf("CompletedAt = %v, want %v", h.CompletedAt, testNow)
	}
}

func TestNewMigrationHistory_KeepsCallerValues(t *testing.T) {
	h := NewMigrationHistory(LogMigrationData{
		OperationType:      "rollback",
		ClientDeploymentID: "dep-1",
		FromVersion:        "2.0.0",
		ToVersion:          "1.9.0",
		MigrationPlan:      json.RawMessage(`{"steps":["a","b"]}`),
		Status:             "failed",
		ExecutionLog:       []string{"step a", "step b"},
	}, testNow)

	if h.Status != "failed" {
		t.Errorf("Status = %q, want failed", h.Status)
	}
	if len(h.ExecutionLog) != 2 {
		t.Errorf("ExecutionLog = %v", h.ExecutionLog)
	}
	if string(h.MigrationPlan) != `{"steps":["a","b"]}` {
		t.Errorf("MigrationPlan = %s", h.MigrationPlan)
	}
	if h.ClientDeploymentID != "dep-1" || h.FromVersion != "2.0.0" || h.ToVersion != "1.9.0" {
		t.Errorf("unexpected row: %+v", h)
	}
}

func TestParseBackupStatus(t *testing.T) {
	tests := map[string]BackupStatus{
		"success": BackupSucceeded,
		"failure": BackupFailed,
		"SUCCESS": BackupFailed,
		"":        BackupFailed,
		"partial": BackupFailed,
	}
	for raw, want := range tests {
		if got := ParseBackupStatus(raw); got != want {
			t.Errorf("ParseBackupStatus(%q) = %v, want %v", raw, got, want)
		}
	}

	if BackupSucceeded.String() != "success" || BackupFailed.String() != "failure" {
		t.Error("unexpected status labels")
	}
}

func TestBackupNotification_SizeInMB(t *testing.T) {
	size := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		size *float64
		want string
	}{
		{name: "two megabytes", size: size(2097152), want: "2.00"},
		{name: "fractional", size: size(1572864), want: "1.50"},
		{name: "zero", size: size(0), want: "0"},
		{name: "absent", size: nil, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &BackupNotification{TotalSize: tt.size}
			if got := n.SizeInMB(); got != tt.want {
				t.Errorf("SizeInMB() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteResult(t *testing.T) {
	record := &ClientDeployment{ID: "id-1"}

	if r := Persisted(record); r.IsDegraded() || r.Record != record {
		t.Errorf("Persisted() = %+v", r)
	}
	if r := DegradedFallback(record); !r.IsDegraded() || r.Outcome != OutcomeDegradedFallback {
		t.Errorf("DegradedFallback() = %+v", r)
	}
	if r := LoggingFailed[MigrationHistory](); !r.IsDegraded() || r.Record != nil {
		t.Errorf("LoggingFailed() = %+v", r)
	}
}
