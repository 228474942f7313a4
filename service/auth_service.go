package service

import (
	"context"
	"errors"
	"fmt"
	"granite-core/common"
	"granite-core/deeplink"
	"granite-core/logger"
	"granite-core/model"
	"granite-core/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidCallback  = errors.New("deep link is not an auth callback")
	ErrMissingToken     = errors.New("auth callback carries no access token")
)

// IAuthAPI is the backend the sign-in screens talk to.
type IAuthAPI interface {
	VerifyOTP(ctx context.Context, email, code string) (*model.Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, accessToken, newPassword string) error
}

// AuthService owns the device token lifecycle.
type AuthService struct {
	tokens repository.ITokenRepository
	api    IAuthAPI
	cache  *QueryCache
	now    func() time.Time
}

func NewAuthService(tokens repository.ITokenRepository, api IAuthAPI, cache *QueryCache) *AuthService {
	return &AuthService{tokens: tokens, api: api, cache: cache, now: time.Now}
}

// Status reports whether a token is stored. When the token happens to be
// a JWT its subject and expiry are included; the signature is not checked.
func (s *AuthService) Status(ctx context.Context) model.AuthStatus {
	token, ok := s.tokens.Get(ctx)
	if !ok || token == "" {
		return model.AuthStatus{Authenticated: false}
	}

	status := model.AuthStatus{Authenticated: true}
	claims := &model.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		status.Subject = claims.Subject
		if claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time.UTC()
			status.ExpiresAt = &exp
		}
	}
	return status
}

// IsAuthenticated never fails; storage errors read as logged out.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return s.tokens.IsAuthenticated(ctx)
}

// SaveToken persists a token obtained elsewhere.
func (s *AuthService) SaveToken(ctx context.Context, token string) error {
	if err := s.tokens.Save(ctx, token); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, TransactionsKey())
	return nil
}

// Logout removes the token and any cached queries belonging to the session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.tokens.Remove(ctx); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, TransactionsKey())
	logger.Log.Info("Session ended")
	return nil
}

// VerifyOTP exchanges an emailed code for a session. The sign-in is only
// complete once the token is persisted; a write failure is returned.
func (s *AuthService) VerifyOTP(ctx context.Context, req model.VerifyOTPRequest) (*model.Session, error) {
	log := logger.Log.WithField("email", req.Email)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	session, err := s.api.VerifyOTP(ctx, req.Email, req.Code)
	if err != nil {
		log.WithError(err).Warn("OTP verification failed")
		return nil, err
	}
	if err := s.persistSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info("OTP verified, session stored")
	return session, nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	req := model.PasswordResetRequest{Email: email}
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	if err := s.api.RequestPasswordReset(ctx, email); err != nil {
		logger.Log.WithError(err).WithField("email", email).Warn("Password reset request failed")
		return err
	}
	logger.Log.WithField("email", email).Info("Password reset email requested")
	return nil
}

// ResetPassword sets a new password with the recovery token from the reset link.
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	if err := s.api.ResetPassword(ctx, req.AccessToken, req.Password); err != nil {
		logger.Log.WithError(err).Warn("Password reset failed")
		return err
	}
	logger.Log.Info("Password reset completed")
	return nil
}

// CompleteOAuthCallback turns a resolved auth/callback (or reset-password)
// route into a stored session.
func (s *AuthService) CompleteOAuthCallback(ctx context.Context, route *deeplink.Route) (*model.Session, error) {
	if route == nil || (route.Screen != deeplink.ScreenAuthCallback && route.Screen != deeplink.ScreenResetPassword) {
		return nil, ErrInvalidCallback
	}

	session := &model.Session{
		AccessToken:  route.String("access_token"),
		RefreshToken: route.String("refresh_token"),
		TokenType:    route.String("token_type"),
		Type:         route.String("type"),
	}
	if expiresIn, ok := route.Int("expires_in"); ok {
		session.ExpiresIn = expiresIn
	}
	if session.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if err := common.ValidateStruct(session); err != nil {
		return nil, fmt.Errorf("invalid auth callback: %w", err)
	}
	if session.ExpiresIn > 0 {
		exp := s.now().Add(time.Duration(session.ExpiresIn) * time.Second).UTC()
		session.ExpiresAt = &exp
	}

	if err := s.persistSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"screen":     route.Screen,
		"type":       session.Type,
		"expires_in": session.ExpiresIn,
	}).Info("Auth callback completed")
	return session, nil
}

func (s *AuthService) persistSession(ctx context.Context, session *model.Session) error {
	if session == nil || session.AccessToken == "" {
		return ErrMissingToken
	}
	if err := s.tokens.Save(ctx, session.AccessToken); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, TransactionsKey())
	return nil
}
