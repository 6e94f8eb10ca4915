package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/cockroachdb/errors"

	"riderequest/internal/repository"
	"riderequest/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string `json:"Error"`
	Reference string `json:"Reference"`
}

// responseHeaders are attached to every response.
func responseHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
	}
}

// respondError builds an error response. Every failure goes out as 500;
// callers can only tell them apart by message text.
func respondError(err error, reference string) events.APIGatewayProxyResponse {
	return respondJSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Reference: reference})
}

// respondJSON builds a JSON response with the given status code.
func respondJSON(code int, data any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		code = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: err.Error()})
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    responseHeaders(),
		Body:       string(body),
	}
}

// errorKind names the error family for logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrAuthorizationNotConfigured):
		return "authorization"
	case errors.Is(err, service.ErrMalformedRequest):
		return "malformed_request"
	case errors.Is(err, service.ErrMissingRider):
		return "missing_rider"
	case errors.Is(err, service.ErrNoCarsAvailable):
		return "no_cars"
	case errors.Is(err, repository.ErrMalformedItem):
		return "malformed_item"
	default:
		return "store"
	}
}
