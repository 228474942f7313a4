package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) Get(context.Context) (string, bool) { return s.token, s.ok }

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/v1", 0, tokens)
	require.NoError(t, err)
	return c
}

func TestClient_GetByDateRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		assert.Equal(t, "2024-02-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-02-29", r.URL.Query().Get("end_date"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"data":[{"id":"t1","amount":"12.30","currency":"EUR","date":"2024-02-03"}]}`))
	}, staticTokens{token: "abc", ok: true})

	resp, err := c.GetByDateRange(context.Background(), "2024-02-01", "2024-02-29")

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "12.3", resp.Data[0].Amount.String())
}

func TestClient_GetRecent_MissingData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}, staticTokens{})

	resp, err := c.GetRecent(context.Background())

	require.NoError(t, err)
	assert.Nil(t, resp.Data)
}

func TestClient_Errors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, nil)

		_, err := c.GetRecent(context.Background())

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}, nil)

		_, err := c.GetRecent(context.Background())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
		assert.Equal(t, "GetRecent", apiErr.Op)
	})
}

func TestClient_VerifyOTP(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/auth/otp/verify", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "123456", body["token"])
		w.Write([]byte(`{"access_token":"tok","expires_in":3600,"token_type":"bearer"}`))
	}, nil)

	session, err := c.VerifyOTP(context.Background(), "ada@example.com", "123456")

	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, int64(3600), session.ExpiresIn)
}

func TestClient_ResetPasswordUsesRecoveryToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer recovery", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}, staticTokens{token: "stored", ok: true})

	err := c.ResetPassword(context.Background(), "recovery", "correct horse")

	assert.NoError(t, err)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("", 0, nil)
	assert.Error(t, err)

	_, err = New("://bad", 0, nil)
	assert.Error(t, err)
}
