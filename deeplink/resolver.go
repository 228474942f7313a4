package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrUnsupportedPrefix = errors.New("deeplink: url does not start with an accepted prefix")
	ErrNoMatchingScreen  = errors.New("deeplink: no screen matches the url path")
	ErrMalformedURL      = errors.New("deeplink: malformed url")
)

// Route is the navigation state a URL resolves to.
type Route struct {
	Screen Screen         `json:"screen"`
	Path   string         `json:"path"`
	Params map[string]any `json:"params"`
	// Dropped lists parameters removed under PolicyDrop.
	Dropped []string `json:"dropped,omitempty"`
}

// String returns a string parameter, or "" when absent or of another type.
func (r *Route) String(name string) string {
	s, _ := r.Params[name].(string)
	return s
}

// Int returns an integer parameter produced by the Int coercion.
func (r *Route) Int(name string) (int64, bool) {
	n, ok := r.Params[name].(int64)
	return n, ok
}

type compiledRoute struct {
	screen   Screen
	segments []string
	params   map[string]Coercion
}

// Resolver matches URLs against a validated Config.
type Resolver struct {
	prefixes []string
	routes   []compiledRoute
	policy   CoercionPolicy
}

// NewResolver validates cfg and prepares it for matching.
func NewResolver(cfg Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid linking config: %w", err)
	}

	prefixes := append([]string(nil), cfg.Prefixes...)
	// Longest prefix first so "https://a.example/app" wins over "https://a.example".
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	routes := make([]compiledRoute, 0, len(cfg.Screens))
	for screen, sc := range cfg.Screens {
		routes = append(routes, compiledRoute{
			screen:   screen,
			segments: splitPath(normalizePath(sc.Path)),
			params:   sc.Params,
		})
	}
	// Literal segments outrank parameters at the same position.
	sort.Slice(routes, func(i, j int) bool {
		si, sj := specificity(routes[i].segments), specificity(routes[j].segments)
		if si != sj {
			return si > sj
		}
		return routes[i].screen < routes[j].screen
	})

	policy := cfg.Policy
	if policy == "" {
		policy = PolicyFail
	}
	return &Resolver{prefixes: prefixes, routes: routes, policy: policy}, nil
}

// Policy returns the coercion policy in effect.
func (r *Resolver) Policy() CoercionPolicy {
	return r.policy
}

// Resolve classifies rawURL and parses its path and query into a Route.
// Parameters in a query-style fragment (#a=1&b=2) are merged in when the
// query string does not already carry them.
func (r *Resolver) Resolve(rawURL string) (*Route, error) {
	rest, ok := r.stripPrefix(strings.TrimSpace(rawURL))
	if !ok {
		return nil, ErrUnsupportedPrefix
	}

	rest, fragment, _ := strings.Cut(rest, "#")
	rawPath, rawQuery, _ := strings.Cut(rest, "?")

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrMalformedURL, err)
	}
	if strings.Contains(fragment, "=") {
		if fragValues, err := url.ParseQuery(fragment); err == nil {
			for k, v := range fragValues {
				if _, exists := query[k]; !exists {
					query[k] = v
				}
			}
		}
	}

	segments := splitPath(normalizePath(rawPath))
	for i, seg := range segments {
		unescaped, err := url.PathUnescape(seg)
		if err != nil {
			return nil, fmt.Errorf("%w: path: %v", ErrMalformedURL, err)
		}
		segments[i] = unescaped
	}

	for _, route := range r.routes {
		pathParams, ok := route.match(segments)
		if !ok {
			continue
		}
		return r.build(route, strings.Join(segments, "/"), pathParams, query)
	}
	return nil, ErrNoMatchingScreen
}

func (r *Resolver) stripPrefix(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			rest := raw[len(prefix):]
			// A web origin must be followed by a path boundary, not more host.
			if rest != "" && !strings.HasSuffix(prefix, "/") && !strings.ContainsAny(rest[:1], "/?#") {
				continue
			}
			return rest, true
		}
	}
	return "", false
}

func (r *Resolver) build(route compiledRoute, path string, pathParams map[string]string, query url.Values) (*Route, error) {
	out := &Route{Screen: route.screen, Path: path, Params: make(map[string]any)}

	raw := make(map[string]string, len(query)+len(pathParams))
	for name, values := range query {
		if len(values) > 0 {
			raw[name] = values[0]
		}
	}
	// Path parameters win over query parameters of the same name.
	for name, value := range pathParams {
		raw[name] = value
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := raw[name]
		coerce, declared := route.params[name]
		if !declared {
			out.Params[name] = value
			continue
		}
		typed, err := coerce(value)
		if err != nil {
			if r.policy == PolicyDrop {
				out.Dropped = append(out.Dropped, name)
				continue
			}
			return nil, &CoercionError{Param: name, Value: value, Err: err}
		}
		out.Params[name] = typed
	}
	return out, nil
}

func (c compiledRoute) match(segments []string) (map[string]string, bool) {
	if len(segments) != len(c.segments) {
		return nil, false
	}
	params := make(map[string]string)
	for i, pattern := range c.segments {
		if strings.HasPrefix(pattern, ":") {
			params[pattern[1:]] = segments[i]
			continue
		}
		if pattern != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	if p == "" {
		return []string{}
	}
	return strings.Split(p, "/")
}

func specificity(segments []string) int {
	score := 0
	for _, s := range segments {
		if !strings.HasPrefix(s, ":") {
			score++
		}
	}
	return score
}
