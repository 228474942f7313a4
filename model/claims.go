package model

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the subset of access-token claims surfaced to the shell.
// The token stays opaque to storage; claims are read only for display.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
