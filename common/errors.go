package common

import (
	"encoding/json"
	"net/http"

	"go-bankist/logger"

	"github.com/sirupsen/logrus"
)

// AppError is the JSON error envelope returned by every endpoint.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Send writes the error as JSON. Server errors are logged with their
// internal cause, client errors at info level.
func (e *AppError) Send(w http.ResponseWriter) {
	fields := logrus.Fields{"status_code": e.Code}
	if e.Err != nil {
		fields["internal_error"] = e.Err.Error()
	}
	if e.Code >= http.StatusInternalServerError {
		logger.Log.WithFields(fields).Error(e.Message)
	} else {
		logger.Log.WithFields(fields).Info(e.Message)
	}

	WriteJSON(w, e.Code, e)
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}
