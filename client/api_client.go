// Package client talks to the Granite backend API on behalf of the core.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"granite-core/logger"
	"granite-core/model"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 15 * time.Second

var ErrUnauthorized = errors.New("backend rejected the credentials")

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
}

// APIError describes a failed backend call.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client implements service.ITransactionAPI and service.IAuthAPI over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
}

func New(baseURL string, timeout time.Duration, tokens TokenSource) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("api base url is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}, nil
}

func (c *Client) GetRecent(ctx context.Context) (*model.TransactionsResponse, error) {
	var out model.TransactionsResponse
	if err := c.do(ctx, "GetRecent", http.MethodGet, "/transactions/recent", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetByDateRange(ctx context.Context, startDate, endDate string) (*model.TransactionsResponse, error) {
	query := url.Values{}
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)

	var out model.TransactionsResponse
	if err := c.do(ctx, "GetByDateRange", http.MethodGet, "/transactions", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*model.Session, error) {
	payload := map[string]string{"email": email, "token": code, "type": "email"}

	var out model.Session
	if err := c.do(ctx, "VerifyOTP", http.MethodPost, "/auth/otp/verify", nil, payload, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, &APIError{Op: "VerifyOTP", Status: http.StatusOK, Err: errors.New("empty access token")}
	}
	return &out, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.do(ctx, "RequestPasswordReset", http.MethodPost, "/auth/password/reset-request", nil, payload, nil)
}

// ResetPassword authenticates with the recovery token rather than the stored one.
func (c *Client) ResetPassword(ctx context.Context, accessToken, newPassword string) error {
	payload := map[string]string{"password": newPassword}
	ctx = withBearer(ctx, accessToken)
	return c.do(ctx, "ResetPassword", http.MethodPost, "/auth/password/reset", nil, payload, nil)
}

type bearerKey struct{}

func withBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func (c *Client) bearer(ctx context.Context) string {
	if token, ok := ctx.Value(bearerKey{}).(string); ok {
		return token
	}
	if c.tokens == nil {
		return ""
	}
	token, _ := c.tokens.Get(ctx)
	return token
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL.JoinPath(path)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"op":         op,
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("Backend request failed")
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	log.WithField("status", resp.StatusCode).WithField("duration", time.Since(start).String()).Debug("Backend request completed")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &APIError{Op: op, Status: resp.StatusCode, Err: ErrUnauthorized}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unexpected response %q", strings.TrimSpace(string(msg)))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
