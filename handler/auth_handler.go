package handler

import (
	"granite-core/common"
	"granite-core/model"
	"granite-core/service"
	"net/http"
)

// AuthHandler exposes the token lifecycle to the app shell.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Status godoc
// @Summary      Authentication status
// @Description  Reports whether a token is stored. Storage failures read as logged out.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.AuthStatus
// @Router       /auth/status [get]
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) *common.AppError {
	common.WriteJSON(w, http.StatusOK, h.service.Status(r.Context()))
	return nil
}

// SaveToken godoc
// @Summary      Store a token
// @Tags         auth
// @Accept       json
// @Param        token body model.SaveTokenRequest true "Token to persist"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      500  {object}  common.AppError "Storage write failed"
// @Router       /auth/token [put]
func (h *AuthHandler) SaveToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SaveTokenRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	if err := h.service.SaveToken(r.Context(), req.Token); err != nil {
		return mapBackendError(err, "Could not save token")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Logout godoc
// @Summary      Remove the stored token
// @Tags         auth
// @Success      204
// @Failure      500  {object}  common.AppError "Storage write failed"
// @Router       /auth/token [delete]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.Logout(r.Context()); err != nil {
		return mapBackendError(err, "Could not remove token")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// VerifyOTP godoc
// @Summary      Verify an emailed one-time code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        otp body model.VerifyOTPRequest true "Email and code"
// @Success      200  {object}  model.Session
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError "Code rejected"
// @Failure      500  {object}  common.AppError "Storage write failed"
// @Failure      502  {object}  common.AppError
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.VerifyOTPRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	session, err := h.service.VerifyOTP(r.Context(), req)
	if err != nil {
		return mapBackendError(err, "Could not verify code")
	}
	common.WriteJSON(w, http.StatusOK, session)
	return nil
}

// RequestPasswordReset godoc
// @Summary      Email a password reset link
// @Tags         auth
// @Accept       json
// @Param        request body model.PasswordResetRequest true "Account email"
// @Success      202
// @Failure      400  {object}  common.AppError
// @Failure      502  {object}  common.AppError
// @Router       /auth/password/reset-request [post]
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.PasswordResetRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		return mapBackendError(err, "Could not request password reset")
	}
	w.WriteHeader(http.StatusAccepted)
	return nil
}

// ResetPassword godoc
// @Summary      Set a new password
// @Tags         auth
// @Accept       json
// @Param        request body model.ResetPasswordRequest true "Recovery token and new password"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError "Recovery token rejected"
// @Failure      502  {object}  common.AppError
// @Router       /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResetPasswordRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	if err := h.service.ResetPassword(r.Context(), req); err != nil {
		return mapBackendError(err, "Could not reset password")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
