// Package httpx provides JSON request/response utilities for the admin API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error envelope returned on non-2xx responses. Clients
// surface Message when present and fall back to Error.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends the error envelope with the given status code.
func Error(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ErrorBody{Error: title, Message: detail})
}

// DecodeJSON decodes the JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
