// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Errors any    `json:"errors,omitempty"`
	Back   string `json:"back,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RenderBadRequest responds 400.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Bad request."
	}
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: msg})
}

// RenderUnauthorized responds 401.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Please login to access this page"
	}
	WriteJSON(w, http.StatusUnauthorized, ErrorBody{Error: msg, Back: "/admin/login"})
}

// RenderNotFound responds 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Not found."
	}
	WriteJSON(w, http.StatusNotFound, ErrorBody{Error: msg, Back: backURL})
}

// RenderConflict responds 409.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg string) {
	WriteJSON(w, http.StatusConflict, ErrorBody{Error: msg})
}

// RenderValidation responds 422 with per-field or per-item messages.
func RenderValidation(w http.ResponseWriter, r *http.Request, msg string, errs any) {
	if msg == "" {
		msg = "Please correct the errors below."
	}
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorBody{Error: msg, Errors: errs})
}

// RenderTooManyRequests responds 429 with a Retry-After header in whole seconds.
func RenderTooManyRequests(w http.ResponseWriter, r *http.Request, msg string, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	WriteJSON(w, http.StatusTooManyRequests, ErrorBody{Error: msg})
}
