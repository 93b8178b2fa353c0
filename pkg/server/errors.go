package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/seqdist/pkg/errors"
	"github.com/matzehuels/seqdist/pkg/observability"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func errNotFound(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeNotFound, format, args...)
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeLengthMismatch, apperrors.ErrCodeIncompatibleElements:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if apperrors.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
		if status == http.StatusRequestEntityTooLarge {
			code = apperrors.ErrCodeInvalidInput
		}
	}
	// Coded errors prefix their text with the code, which the body already carries.
	msg := strings.ReplaceAll(err.Error(), string(code)+": ", "")
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: msg}})
}

// encodeFailedBody is sent when a response value cannot be marshalled.
const encodeFailedBody = `{"error":{"code":"INTERNAL_ERROR","message":"internal error"}}`

// writeJSON marshals v before writing the header so an encoding failure can
// still change the status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("encoding response failed", "err", err)
		status, data = http.StatusInternalServerError, []byte(encodeFailedBody)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
