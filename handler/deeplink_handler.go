package handler

import (
	"errors"
	"granite-core/common"
	"granite-core/deeplink"
	"granite-core/logger"
	"granite-core/model"
	"granite-core/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

// DeepLinkHandler resolves incoming URLs for the navigator.
type DeepLinkHandler struct {
	resolver *deeplink.Resolver
	auth     *service.AuthService
}

func NewDeepLinkHandler(resolver *deeplink.Resolver, auth *service.AuthService) *DeepLinkHandler {
	return &DeepLinkHandler{resolver: resolver, auth: auth}
}

func (h *DeepLinkHandler) resolve(raw string) (*deeplink.Route, *common.AppError) {
	route, err := h.resolver.Resolve(raw)
	if err != nil {
		var coercionErr *deeplink.CoercionError
		switch {
		case errors.Is(err, deeplink.ErrUnsupportedPrefix), errors.Is(err, deeplink.ErrMalformedURL):
			return nil, common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, deeplink.ErrNoMatchingScreen):
			return nil, common.NewAppError(http.StatusNotFound, err.Error(), nil)
		case errors.As(err, &coercionErr):
			return nil, common.NewAppError(http.StatusUnprocessableEntity, err.Error(), nil)
		default:
			return nil, common.NewAppError(http.StatusInternalServerError, "Could not resolve link", err)
		}
	}

	log := logger.Log.WithFields(logrus.Fields{"screen": route.Screen, "path": route.Path})
	if len(route.Dropped) > 0 {
		log = log.WithField("dropped", route.Dropped)
	}
	log.Info("Deep link resolved")
	return route, nil
}

// Resolve godoc
// @Summary      Resolve a deep link
// @Description  Maps a custom-scheme or web URL onto a screen and typed parameters.
// @Tags         deeplinks
// @Produce      json
// @Param        url query string true "Incoming URL"
// @Success      200  {object}  deeplink.Route
// @Failure      400  {object}  common.AppError "Unsupported prefix or malformed URL"
// @Failure      404  {object}  common.AppError "No matching screen"
// @Failure      422  {object}  common.AppError "Parameter coercion failed"
// @Router       /deeplinks/resolve [get]
func (h *DeepLinkHandler) Resolve(w http.ResponseWriter, r *http.Request) *common.AppError {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		return common.NewAppError(http.StatusBadRequest, "url query parameter is required", nil)
	}
	route, appErr := h.resolve(raw)
	if appErr != nil {
		return appErr
	}
	common.WriteJSON(w, http.StatusOK, route)
	return nil
}

// Callback godoc
// @Summary      Complete an OAuth callback
// @Description  Resolves an auth/callback link and stores its access token.
// @Tags         deeplinks
// @Accept       json
// @Produce      json
// @Param        callback body model.DeepLinkCallbackRequest true "Callback URL"
// @Success      200  {object}  model.Session
// @Failure      400  {object}  common.AppError
// @Failure      422  {object}  common.AppError
// @Failure      500  {object}  common.AppError "Storage write failed"
// @Router       /deeplinks/callback [post]
func (h *DeepLinkHandler) Callback(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.DeepLinkCallbackRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	route, appErr := h.resolve(req.URL)
	if appErr != nil {
		return appErr
	}

	session, err := h.auth.CompleteOAuthCallback(r.Context(), route)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCallback), errors.Is(err, service.ErrMissingToken):
			return common.NewAppError(http.StatusUnprocessableEntity, err.Error(), nil)
		default:
			return mapBackendError(err, "Could not complete sign in")
		}
	}
	common.WriteJSON(w, http.StatusOK, session)
	return nil
}
