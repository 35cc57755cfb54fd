package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/adapters/email"
	"provisioning-functions/internal/models"
	"provisioning-functions/internal/services"
	"provisioning-functions/pkg/lambda"
)

// SenderProvider hands out the email sender for a request
type SenderProvider interface {
	EmailConfigured() bool
	Sender(ctx context.Context) (email.Sender, error)
}

const emailNotConfiguredMessage = "Email not configured"

// NotificationHandler serves the backup notifier function
type NotificationHandler struct {
	senders SenderProvider
	service services.NotificationService
	logger  *logrus.Logger
}

// NewNotificationHandler creates a new backup notifier handler
func NewNotificationHandler(senders SenderProvider, service services.NotificationService, logger *logrus.Logger) *NotificationHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &NotificationHandler{
		senders: senders,
		service: service,
		logger:  logger,
	}
}

// @Summary Send a backup notification
// @Description Renders a success or failure email for a backup job and sends one copy per recipient. Returns a message instead of failing when no email provider is configured.
// @Tags backup-notifier
// @Accept json
// @Produce json
// @Param request body models.BackupNotification true "Backup outcome and recipients"
// @Success 200 {object} NotificationResponse
// @Failure 500 {object} ErrorResponse
// @Router /send-backup-notification [post]
func (h *NotificationHandler) HandleBackupNotification(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if isPreflight(req) {
		return preflight(), nil
	}

	resp, err := h.notify(ctx, req)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"error":      err.Error(),
		}).Error("Notification error")
		return jsonResponse(http.StatusInternalServerError, ErrorResponse{Error: err.Error()}), nil
	}
	return resp, nil
}

func (h *NotificationHandler) notify(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if !h.senders.EmailConfigured() {
		return h.notConfigured(), nil
	}

	sender, err := h.senders.Sender(ctx)
	if err != nil {
		if email.IsNotConfigured(err) {
			return h.notConfigured(), nil
		}
		return nil, err
	}

	var notification models.BackupNotification
	if err := json.Unmarshal(req.Body, &notification); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	if err := h.service.Notify(ctx, sender, &notification); err != nil {
		return nil, err
	}

	return jsonResponse(http.StatusOK, NotificationResponse{Success: true}), nil
}

func (h *NotificationHandler) notConfigured() *lambda.Response {
	h.logger.Warn("Email provider not configured, skipping email notification")
	return jsonResponse(http.StatusOK, MessageResponse{Message: emailNotConfiguredMessage})
}
