package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"provisioning-functions/internal/adapters/email"
	"provisioning-functions/internal/metrics"
	"provisioning-functions/internal/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

var backupTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// isoTimestamp renders UTC times with millisecond precision and a Z suffix
const isoTimestamp = "2006-01-02T15:04:05.000Z07:00"

// remediationSteps are listed in every failure notification
var remediationSteps = []string{
	"Check the backup configuration in your admin dashboard",
	"Verify that all required services are running",
	"Review the backup execution logs for more details",
	"Try running the backup manually to diagnose the issue",
}

// RenderedEmail is the subject and body shared by every recipient of a notification
type RenderedEmail struct {
	Subject string
	HTML    string
}

type successView struct {
	BackupName  string
	Files       []string
	SizeMB      string
	StoragePath string
	Timestamp   string
}

type failureView struct {
	BackupName  string
	Error       string
	Remediation []string
}

// notificationService implements the NotificationService interface
type notificationService struct {
	from      string
	validator *validator.Validate
	logger    *logrus.Logger
	now       func() time.Time
}

// NewNotificationService creates a notification service sending from the given address
func NewNotificationService(from string, logger *logrus.Logger) NotificationService {
	return newNotificationService(from, logger, time.Now)
}

func newNotificationService(from string, logger *logrus.Logger, now func() time.Time) *notificationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &notificationService{
		from:      from,
		validator: validator.New(),
		logger:    logger,
		now:       now,
	}
}

// Validate checks the recipient list
func (s *notificationService) Validate(n *models.BackupNotification) error {
	if n == nil {
		return fmt.Errorf("notification cannot be nil")
	}
	if err := s.validator.Struct(n); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}
	return nil
}

// Render builds the subject and HTML body for the reported backup outcome
func (s *notificationService) Render(n *models.BackupNotification) (*RenderedEmail, error) {
	var (
		subject string
		name    string
		view    interface{}
	)

	switch n.Outcome() {
	case models.BackupSucceeded:
		storagePath := n.StoragePath
		if storagePath == "" {
			storagePath = "N/A"
		}
		subject = fmt.Sprintf("✅ Scheduled Backup Completed: %s", n.BackupName)
		name = "backup_success.html"
		view = successView{
			BackupName:  n.BackupName,
			Files:       n.Files,
			SizeMB:      n.SizeInMB(),
			StoragePath: storagePath,
			Timestamp:   s.now().UTC().Format(isoTimestamp),
		}
	case models.BackupFailed:
		reason := n.Error
		if reason == "" {
			reason = "Unknown error"
		}
		subject = fmt.Sprintf("❌ Scheduled Backup Failed: %s", n.BackupName)
		name = "backup_failure.html"
		view = failureView{
			BackupName:  n.BackupName,
			Error:       reason,
			Remediation: remediationSteps,
		}
	}

	var buf bytes.Buffer
	if err := backupTemplates.ExecuteTemplate(&buf, name, view); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return &RenderedEmail{Subject: subject, HTML: buf.String()}, nil
}

// Notify validates and renders n, then sends one message per recipient
// concurrently. Every send is awaited; the first failure is returned.
func (s *notificationService) Notify(ctx context.Context, sender email.Sender, n *models.BackupNotification) error {
	if sender == nil {
		return email.ErrNotConfigured
	}
	if err := s.Validate(n); err != nil {
		return err
	}

	status := n.Outcome()
	s.logger.WithFields(logrus.Fields{
		"status":      status.String(),
		"backup_name": n.BackupName,
		"recipients":  len(n.Emails),
		"provider":    sender.Provider(),
	}).Info("Sending backup notification")

	rendered, err := s.Render(n)
	if err != nil {
		return err
	}
	metrics.BackupNotificationsTotal.WithLabelValues(status.String()).Inc()

	start := time.Now()
	var g errgroup.Group
	for _, recipient := range n.Emails {
		recipient := recipient
		g.Go(func() error {
			id, err := sender.Send(ctx, models.EmailMessage{
				From:    s.from,
				To:      []string{recipient},
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
			})
			metrics.ObserveSend(err == nil)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"recipient": recipient,
					"provider":  sender.Provider(),
					"retryable": email.IsRetryable(err),
					"error":     err.Error(),
				}).Error("Failed to send backup notification")
				return err
			}
			s.logger.WithFields(logrus.Fields{
				"recipient":  recipient,
				"message_id": id,
			}).Debug("Backup notification sent")
			return nil
		})
	}
	err = g.Wait()
	metrics.NotificationSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	s.logger.WithField("recipients", len(n.Emails)).Info("Notifications sent")
	return nil
}
