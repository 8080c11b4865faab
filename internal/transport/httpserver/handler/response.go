package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"mensaje"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeInternal hides err from the caller unless ExposeErrors is set.
func (h *Handlers) writeInternal(w http.ResponseWriter, err error) {
	message := "internal error"
	if h.opts.ExposeErrors && err != nil {
		message = err.Error()
	}
	writeError(w, http.StatusInternalServerError, "internal_error", message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// decodeJSONLenient ignores unknown keys. The public form posts whatever the
// page collects, including derived fields the server recomputes.
func decodeJSONLenient(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request"
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", fieldErr.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fieldErr.Field()))
		}
	}
	return strings.Join(parts, "; ")
}
