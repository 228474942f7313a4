package deeplink

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coercion converts a raw query-string value into its typed form.
type Coercion func(raw string) (any, error)

// CoercionError reports a parameter whose value could not be coerced.
type CoercionError struct {
	Param string
	Value string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("deeplink: parameter %q: cannot coerce %q: %v", e.Param, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// String is the identity coercion.
func String(raw string) (any, error) {
	return raw, nil
}

// Int parses a whole number such as an expires_in lifetime. Integral
// float spellings ("3600.0", "3.6e3") are accepted; fractions are not.
func Int(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	return int64(f), nil
}

// CoercionPolicy decides what happens to a navigation attempt when a
// declared parameter fails to coerce.
type CoercionPolicy string

const (
	// PolicyFail rejects the whole URL with a *CoercionError.
	PolicyFail CoercionPolicy = "fail"
	// PolicyDrop resolves the route without the offending parameter.
	PolicyDrop CoercionPolicy = "drop"
)

// ParsePolicy maps a configuration string onto a policy, defaulting to PolicyFail.
func ParsePolicy(s string) CoercionPolicy {
	switch CoercionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyDrop:
		return PolicyDrop
	default:
		return PolicyFail
	}
}
