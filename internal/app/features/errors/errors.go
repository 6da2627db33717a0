// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures with request context and answers
// the client with a generic message. Handlers never echo driver errors.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs msg and err at error level and responds 500 with
// userMsg. backURL, when set, is returned so clients can offer a way back.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	if userMsg == "" {
		userMsg = "An internal error occurred."
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: userMsg, Back: backURL})
}

// LogUnavailable logs a connectivity failure at warn level and responds 503.
func (e *ErrorLogger) LogUnavailable(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Warn(msg, e.fields(r, err)...)
	w.Header().Set("Retry-After", "5")
	WriteJSON(w, http.StatusServiceUnavailable, ErrorBody{Error: "Database unavailable. Please try again shortly."})
}

// LogBadRequest logs a malformed request at info level and responds 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Info(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg)
}
