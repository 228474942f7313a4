package handler

import (
	"errors"
	"granite-core/client"
	"granite-core/common"
	"granite-core/repository"
	"net/http"

	"github.com/go-playground/validator/v10"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// mapBackendError translates errors shared by several handlers.
// fallback is the message used for unexpected errors.
func mapBackendError(err error, fallback string) *common.AppError {
	var (
		validationErrs validator.ValidationErrors
		writeErr       *repository.StorageWriteError
		apiErr         *client.APIError
	)
	switch {
	case errors.As(err, &validationErrs):
		return common.NewAppError(http.StatusBadRequest, validationErrs.Error(), nil)
	case errors.Is(err, repository.ErrEmptyToken):
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &writeErr):
		return common.NewAppError(http.StatusInternalServerError, "Could not persist credentials", err)
	case errors.Is(err, client.ErrUnauthorized):
		return common.NewAppError(http.StatusUnauthorized, "Backend rejected the credentials", err)
	case errors.As(err, &apiErr):
		return common.NewAppError(http.StatusBadGateway, fallback, err)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}
