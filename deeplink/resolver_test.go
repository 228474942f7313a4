package deeplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, policy CoercionPolicy) *Resolver {
	t.Helper()
	cfg := DefaultConfig("https://app.granite.example")
	cfg.Policy = policy
	r, err := NewResolver(cfg)
	require.NoError(t, err)
	return r
}

func TestResolve_OAuthCallback(t *testing.T) {
	r := newTestResolver(t, PolicyFail)

	route, err := r.Resolve("granite://auth/callback?access_token=abc&expires_in=3600&type=signup")

	require.NoError(t, err)
	assert.Equal(t, ScreenAuthCallback, route.Screen)
	assert.Equal(t, "auth/callback", route.Path)
	assert.Equal(t, map[string]any{
		"access_token": "abc",
		"expires_in":   int64(3600),
		"type":         "signup",
	}, route.Params)

	expires, ok := route.Int("expires_in")
	assert.True(t, ok)
	assert.Equal(t, int64(3600), expires)
	assert.Equal(t, "abc", route.String("access_token"))

	route, err = r.Resolve("granite://auth/callback?access_token=abc&expires_in=3600.0")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), route.Params["expires_in"])
}

func TestResolve_Prefixes(t *testing.T) {
	r := newTestResolver(t, PolicyFail)

	tests := []struct {
		name   string
		url    string
		screen Screen
		err    error
	}{
		{"custom scheme root", "granite://", ScreenHome, nil},
		{"web origin", "https://app.granite.example/calendar?month=2024-03", ScreenCalendar, nil},
		{"scheme is case insensitive", "GRANITE://calendar", ScreenCalendar, nil},
		{"extra slash after scheme", "granite:///auth/verify-otp/", ScreenVerifyOTP, nil},
		{"unknown scheme", "other://auth/callback", "", ErrUnsupportedPrefix},
		{"lookalike origin", "https://app.granite.example.evil.com/calendar", "", ErrUnsupportedPrefix},
		{"unknown path", "granite://settings/profile", "", ErrNoMatchingScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := r.Resolve(tt.url)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, route)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.screen, route.Screen)
		})
	}
}

func TestResolve_PathParameters(t *testing.T) {
	r := newTestResolver(t, PolicyFail)

	route, err := r.Resolve("granite://transactions/tx%2042?id=ignored&from=push")

	require.NoError(t, err)
	assert.Equal(t, ScreenTransaction, route.Screen)
	assert.Equal(t, "tx 42", route.Params["id"])
	assert.Equal(t, "push", route.Params["from"], "undeclared parameters pass through as strings")
}

func TestResolve_FragmentParameters(t *testing.T) {
	r := newTestResolver(t, PolicyFail)

	route, err := r.Resolve("granite://auth/callback?type=recovery#access_token=abc&expires_in=60&type=signup")

	require.NoError(t, err)
	assert.Equal(t, "abc", route.Params["access_token"])
	assert.Equal(t, int64(60), route.Params["expires_in"])
	assert.Equal(t, "recovery", route.Params["type"], "query string wins over fragment")
}

func TestResolve_CoercionFailure(t *testing.T) {
	const link = "granite://auth/callback?access_token=abc&expires_in=soon"

	t.Run("fail policy rejects navigation", func(t *testing.T) {
		r := newTestResolver(t, PolicyFail)

		route, err := r.Resolve(link)

		assert.Nil(t, route)
		var coercionErr *CoercionError
		require.ErrorAs(t, err, &coercionErr)
		assert.Equal(t, "expires_in", coercionErr.Param)
		assert.Equal(t, "soon", coercionErr.Value)
	})

	t.Run("drop policy removes the parameter", func(t *testing.T) {
		r := newTestResolver(t, PolicyDrop)

		route, err := r.Resolve(link)

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"access_token": "abc"}, route.Params)
		assert.Equal(t, []string{"expires_in"}, route.Dropped)
	})
}

func TestResolve_MalformedQuery(t *testing.T) {
	r := newTestResolver(t, PolicyFail)

	_, err := r.Resolve("granite://auth/callback?access_token=%zz")

	assert.ErrorIs(t, err, ErrMalformedURL)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	t.Run("missing coercion", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Screens[ScreenCalendar] = ScreenConfig{Path: "calendar", Params: map[string]Coercion{"month": nil}}

		assert.Error(t, cfg.Validate())
		_, err := NewResolver(cfg)
		assert.Error(t, err)
	})

	t.Run("duplicate path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Screens["Agenda"] = ScreenConfig{Path: "/calendar/"}

		assert.ErrorContains(t, cfg.Validate(), "share path")
	})

	t.Run("no prefixes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Prefixes = nil

		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown policy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Policy = "guess"

		assert.Error(t, cfg.Validate())
	})
}

func TestCoercions(t *testing.T) {
	v, err := Int(" 3600 ")
	assert.NoError(t, err)
	assert.Equal(t, int64(3600), v)

	for raw, want := range map[string]int64{"3600.0": 3600, "3.6e3": 3600, "-60": -60} {
		v, err := Int(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, v, raw)
	}
	for _, raw := range []string{"NaN", "Inf", "3600.5", "1e30", "soon", ""} {
		_, err := Int(raw)
		assert.Error(t, err, raw)
	}

	s, err := String("signup")
	assert.NoError(t, err)
	assert.Equal(t, "signup", s)

	assert.Equal(t, PolicyDrop, ParsePolicy(" DROP "))
	assert.Equal(t, PolicyFail, ParsePolicy("whatever"))
}
