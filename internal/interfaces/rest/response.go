package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DanielPopoola/mpesa-checkout/internal/application"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else if apiErr, ok := data.(*APIError); ok {
		response.Error = apiErr
	}

	_ = json.NewEncoder(w).Encode(response)
}

// WriteError maps application errors to HTTP responses
func WriteError(w http.ResponseWriter, err error) {
	message := err.Error()
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	respondWithJSON(w, application.ToHTTPStatus(err), &APIError{
		Code:    application.ToErrorCode(err),
		Message: message,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, &APIError{Code: code, Message: message})
}
