package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error payload shared by every endpoint. Provider
// and Status are set only by the multi-provider relay failure responses;
// Detail carries the triggering error's message on generic 500s.
type ErrorResponse struct {
	Error    string `json:"error"`
	Provider string `json:"provider,omitempty"`
	Status   string `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with the given body
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteBadRequest writes a 400 Bad Request response carrying the message
// in the error field
func WriteBadRequest(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Invalid request"
	}
	return WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: message,
	})
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "endpoint not found"
	}
	return WriteJSON(w, http.StatusNotFound, ErrorResponse{
		Error: message,
	})
}

// WriteInternalServerError writes the generic 500 response used by the
// top-level error handlers. The error field carries a fixed message so
// internals never leak; detail holds the triggering error's message.
func WriteInternalServerError(w http.ResponseWriter, detail string) error {
	return WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:  "Something went wrong!",
		Detail: detail,
	})
}
