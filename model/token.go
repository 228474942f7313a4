// file: model/token.go

package model

import "time"

// Session is the credential set delivered by an OAuth or OTP sign-in.
// Only AccessToken is persisted; the rest is informational.
type Session struct {
	AccessToken  string     `json:"access_token" validate:"required"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenType    string     `json:"token_type,omitempty"`
	Type         string     `json:"type,omitempty"`
	ExpiresIn    int64      `json:"expires_in,omitempty" validate:"gte=0"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// AuthStatus is what the shell reads to decide between the login and home stacks.
type AuthStatus struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
