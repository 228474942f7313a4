// Package deeplink declares how incoming custom-scheme and web URLs map to
// in-app screens, and resolves a URL against that declaration.
package deeplink

import (
	"errors"
	"fmt"
	"strings"
)

// Screen identifies a navigation target in the app shell.
type Screen string

const (
	ScreenHome          Screen = "Home"
	ScreenAuthCallback  Screen = "AuthCallback"
	ScreenResetPassword Screen = "ResetPassword"
	ScreenVerifyOTP     Screen = "VerifyOtp"
	ScreenCalendar      Screen = "Calendar"
	ScreenTransaction   Screen = "TransactionDetail"
)

// DefaultScheme is the custom scheme root the app registers.
const DefaultScheme = "granite://"

// ScreenConfig is the path pattern of one screen and the coercion applied
// to each declared parameter. Segments starting with ':' bind path
// parameters; query parameters not listed in Params pass through as strings.
type ScreenConfig struct {
	Path   string
	Params map[string]Coercion
}

// Config is the linking declaration consumed at startup.
type Config struct {
	Prefixes []string
	Screens  map[Screen]ScreenConfig
	Policy   CoercionPolicy
}

// OAuthCallbackParams is the coercion table of the auth/callback route.
func OAuthCallbackParams() map[string]Coercion {
	return map[string]Coercion{
		"access_token":  String,
		"refresh_token": String,
		"token_type":    String,
		"type":          String,
		"expires_in":    Int,
	}
}

// DefaultConfig returns the app's linking table. The custom scheme is
// always accepted; webPrefixes adds the origins the host environment serves.
func DefaultConfig(webPrefixes ...string) Config {
	prefixes := append([]string{DefaultScheme}, webPrefixes...)
	return Config{
		Prefixes: prefixes,
		Policy:   PolicyFail,
		Screens: map[Screen]ScreenConfig{
			ScreenHome:          {Path: ""},
			ScreenAuthCallback:  {Path: "auth/callback", Params: OAuthCallbackParams()},
			ScreenResetPassword: {Path: "auth/reset-password", Params: OAuthCallbackParams()},
			ScreenVerifyOTP:     {Path: "auth/verify-otp", Params: map[string]Coercion{"email": String}},
			ScreenCalendar:      {Path: "calendar", Params: map[string]Coercion{"month": String}},
			ScreenTransaction:   {Path: "transactions/:id", Params: map[string]Coercion{"id": String}},
		},
	}
}

// Validate checks that the declaration is usable: at least one prefix,
// no duplicate path patterns, and a coercion function for every declared parameter.
func (c Config) Validate() error {
	var errs []error
	if len(c.Prefixes) == 0 {
		errs = append(errs, errors.New("at least one prefix is required"))
	}
	for _, p := range c.Prefixes {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("empty prefix"))
		}
	}

	seen := make(map[string]Screen, len(c.Screens))
	for screen, sc := range c.Screens {
		pattern := normalizePath(sc.Path)
		if other, dup := seen[pattern]; dup {
			errs = append(errs, fmt.Errorf("screens %s and %s share path %q", other, screen, pattern))
		}
		seen[pattern] = screen

		for name, fn := range sc.Params {
			if fn == nil {
				errs = append(errs, fmt.Errorf("screen %s: parameter %q has no coercion", screen, name))
			}
		}
	}

	switch c.Policy {
	case PolicyFail, PolicyDrop, "":
	default:
		errs = append(errs, fmt.Errorf("unknown coercion policy %q", c.Policy))
	}
	return errors.Join(errs...)
}

func normalizePath(p string) string {
	return strings.Trim(p, "/")
}
