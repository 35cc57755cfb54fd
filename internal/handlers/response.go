package handlers

import (
	"encoding/json"
	"net/http"

	"provisioning-functions/internal/middleware"
	"provisioning-functions/pkg/lambda"
)

// HeaderAuditOutcome reports a degraded audit write without requiring callers
// to inspect the record
const HeaderAuditOutcome = "X-Audit-Outcome"

// WriterResponse is the success body of the deployment writer. Data is null
// when the audit row could not be logged.
type WriterResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// WriterErrorResponse is the failure body of the deployment writer
type WriterErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NotificationResponse is the success body of the backup notifier
type NotificationResponse struct {
	Success bool `json:"success"`
}

// MessageResponse is returned when the notifier has nothing to do
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body of the backup notifier
type ErrorResponse struct {
	Error string `json:"error"`
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  middleware.AllowOrigin,
		"Access-Control-Allow-Headers": middleware.AllowHeaders,
	}
}

// preflight answers a CORS preflight request with an empty body
func preflight() *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders(),
	}
}

// jsonResponse serializes body with the CORS headers attached
func jsonResponse(status int, body interface{}) *lambda.Response {
	headers := corsHeaders()
	headers["Content-Type"] = "application/json"

	payload, err := json.Marshal(body)
	if err != nil {
		return &lambda.Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       []byte(`{"error": "Failed to serialize response"}`),
		}
	}

	return &lambda.Response{
		StatusCode: status,
		Headers:    headers,
		Body:       payload,
	}
}

func isPreflight(req *lambda.Request) bool {
	return req.Method == http.MethodOptions
}
