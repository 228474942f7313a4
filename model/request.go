// file: model/request.go

package model

// SaveTokenRequest stores a token obtained outside the core (e.g. password login).
type SaveTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyOTPRequest defines the payload of the OTP verification screen.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric,min=4,max=8"`
}

// PasswordResetRequest asks the backend to email a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a reset using the recovery token
// delivered by the reset link deep link.
type ResetPasswordRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
}

// DeepLinkCallbackRequest carries an incoming auth/callback URL.
type DeepLinkCallbackRequest struct {
	URL string `json:"url" validate:"required"`
}
