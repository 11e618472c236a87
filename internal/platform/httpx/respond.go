// Package httpx provides HTTP response utilities for JSON error envelopes.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON error body returned to API clients.
type Envelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error envelope with the given status code.
func Error(w http.ResponseWriter, status int, env Envelope) {
	JSON(w, status, env)
}

// DecodeJSON decodes JSON request body into the target struct. The body is
// capped at limit bytes when limit is positive.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, target any) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	return json.NewDecoder(body).Decode(target)
}
