package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rushilkag/academic-qa-backend/internal/models"
)

// Common response structures for consistency across all handlers
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"` // set for validation failures
	Success bool   `json:"success"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// SendError maps a core error to its HTTP status and sends a structured
// body. Validation -> 400, NotFound -> 404, Authorization -> 403,
// Conflict -> 409, anything else -> 500 with the detail kept in the log.
func SendError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	field := ""

	var validation *models.ValidationError
	var notFound *models.NotFoundError
	var conflict *models.ConflictError
	var authz *models.AuthorizationError

	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		message = validation.Message
		field = validation.Field
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		message = notFound.Error()
	case errors.As(err, &authz):
		status = http.StatusForbidden
		message = authz.Message
	case errors.As(err, &conflict):
		status = http.StatusConflict
		message = conflict.Message
	default:
		log.Printf("Unhandled error: %v", err)
	}

	writeJSON(w, status, ErrorResponse{Message: message, Field: field, Success: false})
}

// SendSuccess sends a 200 with data
func SendSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, SuccessResponse{Message: message, Success: true, Data: data})
}

// SendCreated sends a 201 with the created resource
func SendCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, SuccessResponse{Message: message, Success: true, Data: data})
}

// SendAccepted sends a 202 for work that continues in the background
func SendAccepted(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusAccepted, SuccessResponse{Message: message, Success: true, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// DecodeJSONBody validates and decodes a JSON request body
func DecodeJSONBody(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return &models.ValidationError{Message: "request body is required"}
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields() // strict validation

	if err := decoder.Decode(dest); err != nil {
		return &models.ValidationError{Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}
