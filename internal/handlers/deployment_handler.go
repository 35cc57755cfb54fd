package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"provisioning-functions/internal/database"
	"provisioning-functions/internal/metrics"
	"provisioning-functions/internal/models"
	"provisioning-functions/internal/repositories"
	"provisioning-functions/internal/services"
	"provisioning-functions/pkg/lambda"
)

// StoreProvider hands out the deployment store for a request.
// ServiceKeyConfigured must not open any connection.
type StoreProvider interface {
	ServiceKeyConfigured() bool
	Store(ctx context.Context) (repositories.DeploymentStore, error)
}

// WriterRequest is the body of a deployment writer request
type WriterRequest struct {
	Action string          `json:"action" example:"register_deployment"`
	Data   json.RawMessage `json:"data" swaggertype:"object"`
}

// DeploymentHandler serves the deployment writer function
type DeploymentHandler struct {
	stores     StoreProvider
	newService func(store repositories.DeploymentStore) services.DeploymentService
	logger     *logrus.Logger
}

// NewDeploymentHandler creates a new deployment writer handler
func NewDeploymentHandler(stores StoreProvider, logger *logrus.Logger) *DeploymentHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &DeploymentHandler{
		stores: stores,
		newService: func(store repositories.DeploymentStore) services.DeploymentService {
			return services.NewDeploymentService(store, logger)
		},
		logger: logger,
	}
}

// @Summary Write a deployment audit record
// @Description Dispatches on action: register_deployment inserts a client deployment (a fallback record is returned when the insert fails), log_migration inserts a migration history row (data is null when the insert fails).
// @Tags deployment-writer
// @Accept json
// @Produce json
// @Param request body WriterRequest true "Action and payload"
// @Success 200 {object} WriterResponse
// @Header 200 {string} X-Audit-Outcome "degraded_fallback or logging_failed when the row was not stored"
// @Failure 500 {object} WriterErrorResponse
// @Router /deployment-writer [post]
func (h *DeploymentHandler) HandleDeploymentWriter(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if isPreflight(req) {
		return preflight(), nil
	}

	resp, err := h.write(ctx, req)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"error":      err.Error(),
		}).Error("Deployment writer error")
		return jsonResponse(http.StatusInternalServerError, WriterErrorResponse{
			Success: false,
			Error:   err.Error(),
		}), nil
	}
	return resp, nil
}

func (h *DeploymentHandler) write(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body WriterRequest
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	if !h.stores.ServiceKeyConfigured() {
		return nil, database.ErrServiceKeyMissing
	}

	action, err := models.ParseAction(body.Action)
	if err != nil {
		return nil, err
	}

	// the store is only opened for a known action
	store, err := h.stores.Store(ctx)
	if err != nil {
		return nil, err
	}

	svc := h.newService(store)
	h.logger.WithFields(logrus.Fields{
		"request_id": req.RequestID,
		"action":     action,
	}).Info("Handling deployment writer action")

	switch action {
	case models.ActionRegisterDeployment:
		var data models.RegisterDeploymentData
		if err := decodeData(action, body.Data, &data); err != nil {
			return nil, err
		}
		result := svc.RegisterDeployment(ctx, data)
		return writeResponse(action, result.Outcome, result.Record), nil

	case models.ActionLogMigration:
		var data models.LogMigrationData
		if err := decodeData(action, body.Data, &data); err != nil {
			return nil, err
		}
		result := svc.LogMigration(ctx, data)
		return writeResponse(action, result.Outcome, result.Record), nil
	}

	return nil, fmt.Errorf("%w: %s", models.ErrUnknownAction, action)
}

// decodeData requires a data object for every action
func decodeData(action models.Action, raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("missing data for action %s", action)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid data for action %s: %w", action, err)
	}
	return nil
}

func writeResponse[T any](action models.Action, outcome models.WriteOutcome, record *T) *lambda.Response {
	metrics.ObserveWrite(string(action), string(outcome))

	var data interface{}
	if record != nil {
		data = record
	}

	resp := jsonResponse(http.StatusOK, WriterResponse{Success: true, Data: data})
	if outcome != models.OutcomePersisted {
		resp.Headers[HeaderAuditOutcome] = string(outcome)
	}
	return resp
}
