package models

import "fmt"

// BackupStatus is the reported outcome of a backup job
type BackupStatus int

const (
	BackupFailed BackupStatus = iota
	BackupSucceeded
)

// ParseBackupStatus maps the wire status. Only "success" is a success; every
// other value, including an empty one, is treated as a failure.
func ParseBackupStatus(raw string) BackupStatus {
	if raw == "success" {
		return BackupSucceeded
	}
	return BackupFailed
}

// String returns the metric label for the status
func (s BackupStatus) String() string {
	switch s {
	case BackupSucceeded:
		return "success"
	case BackupFailed:
		return "failure"
	}
	return fmt.Sprintf("BackupStatus(%d)", int(s))
}

// BackupNotification is the payload of a backup notifier request
type BackupNotification struct {
	Status      string   `json:"status"`
	BackupName  string   `json:"backup_name"`
	Files       []string `json:"files,omitempty"`
	TotalSize   *float64 `json:"total_size,omitempty"`
	StoragePath string   `json:"storage_path,omitempty"`
	Error       string   `json:"error,omitempty"`
	Emails      []string `json:"emails" validate:"required"`
}

// Outcome returns the parsed backup status
func (n *BackupNotification) Outcome() BackupStatus {
	return ParseBackupStatus(n.Status)
}

// SizeInMB formats the total size in megabytes with two decimals, or "0" when
// no size was reported.
func (n *BackupNotification) SizeInMB() string {
	if n.TotalSize == nil || *n.TotalSize == 0 {
		return "0"
	}
	return fmt.Sprintf("%.2f", *n.TotalSize/(1024*1024))
}

// EmailMessage is a single outgoing email
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	HTML    string
}
