package common

import (
	"encoding/json"
	"granite-core/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is an error carrying the HTTP status and the message shown to the shell.
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

// Send logs the internal cause, if any, and writes the error as JSON.
func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		fields := logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}
		if e.Code >= http.StatusInternalServerError {
			logger.Log.WithFields(fields).Error(e.Message)
		} else {
			logger.Log.WithFields(fields).Warn(e.Message)
		}
	}

	WriteJSON(w, e.Code, e)
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response body")
	}
}
