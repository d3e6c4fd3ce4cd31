// Package httputil provides HTTP response helper functions.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/trajefino/api/internal/pkg/ctxlog"
)

// JSON writes a raw JSON response.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Message writes a {"message": ...} body. Used for not-found, conflict and
// authentication failures.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// NotFound writes a 404 with a {"message": ...} body.
func NotFound(w http.ResponseWriter, message string) {
	Message(w, http.StatusNotFound, message)
}

// FieldErrors writes a 400 whose body maps each failed field to a message.
func FieldErrors(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, fields)
}

// ValidationError writes a 400 per-field error body. validator.ValidationErrors
// are flattened into {field: message}; any other error becomes {"message": ...}.
func ValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		Message(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		msg := e.Tag()
		if e.Param() != "" {
			msg += "=" + e.Param()
		}
		fields[e.Field()] = msg
	}
	FieldErrors(w, fields)
}

// errorMessage is the body returned for unhandled failures.
type errorMessage struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Internal logs the error and writes a 500 with a diagnostic body.
func Internal(ctx context.Context, w http.ResponseWriter, err error) {
	ctxlog.FromContext(ctx).Error("internal error", "error", err)
	JSON(w, http.StatusInternalServerError, errorMessage{
		Title:       "internal error",
		Description: err.Error(),
		Timestamp:   time.Now().UTC(),
	})
}

// NewValidator returns a validator that reports JSON field names, so
// per-field error bodies match the request payload keys.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
