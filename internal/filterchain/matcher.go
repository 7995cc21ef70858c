package filterchain

import (
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"
)

// RequestMatcher decides whether a chain applies to a request.
// Implementations must be pure and safe for concurrent use.
type RequestMatcher interface {
	Matches(r *http.Request) bool
}

// MatcherFunc adapts a function to RequestMatcher.
type MatcherFunc func(r *http.Request) bool

// Matches calls f(r).
func (f MatcherFunc) Matches(r *http.Request) bool { return f(r) }

// AnyRequest matches every request.
func AnyRequest() RequestMatcher {
	return MatcherFunc(func(*http.Request) bool { return true })
}

// requestPath returns the cleaned URL path so that dot segments cannot
// sneak past a prefix pattern.
func requestPath(r *http.Request) string {
	p := r.URL.Path
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

type pathMatcher struct {
	pattern  string
	prefix   []string // segments before a trailing /**
	wildcard bool
}

// PathMatcher matches the request path against an ant-style pattern.
// A segment may use path.Match syntax; a trailing "/**" matches the prefix
// itself and everything below it. "/**" matches every path.
func PathMatcher(pattern string) (RequestMatcher, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidPattern, pattern)
	}

	m := &pathMatcher{pattern: pattern}
	base := pattern
	if rest, ok := strings.CutSuffix(pattern, "/**"); ok {
		m.wildcard = true
		base = rest
	}
	if strings.Contains(base, "**") {
		return nil, fmt.Errorf("%w: %q uses ** outside a trailing /**", ErrInvalidPattern, pattern)
	}
	if _, err := path.Match(base, ""); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	// Request paths are cleaned before matching, so the pattern must be too.
	if !m.wildcard {
		base = path.Clean(base)
	}

	m.pattern = base
	m.prefix = splitSegments(base)
	return m, nil
}

func (m *pathMatcher) Matches(r *http.Request) bool {
	p := requestPath(r)
	if !m.wildcard {
		ok, _ := path.Match(m.pattern, p)
		return ok
	}

	segments := splitSegments(p)
	if len(segments) < len(m.prefix) {
		return false
	}
	for i, want := range m.prefix {
		if ok, _ := path.Match(want, segments[i]); !ok {
			return false
		}
	}
	return true
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// MustPathMatcher is like PathMatcher but panics on a bad pattern.
func MustPathMatcher(pattern string) RequestMatcher {
	m, err := PathMatcher(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// RegexMatcher matches the request path against a regular expression.
func RegexMatcher(expr string) (RequestMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return MatcherFunc(func(r *http.Request) bool {
		return re.MatchString(requestPath(r))
	}), nil
}

// MethodMatcher matches any of the given HTTP methods, case-insensitively.
func MethodMatcher(methods ...string) RequestMatcher {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[strings.ToUpper(m)] = struct{}{}
	}
	return MatcherFunc(func(r *http.Request) bool {
		_, ok := set[strings.ToUpper(r.Method)]
		return ok
	})
}

// HeaderMatcher matches when header name is present, or equals value when
// value is non-empty.
func HeaderMatcher(name, value string) RequestMatcher {
	return MatcherFunc(func(r *http.Request) bool {
		values := r.Header.Values(name)
		if len(values) == 0 {
			return false
		}
		if value == "" {
			return true
		}
		for _, v := range values {
			if v == value {
				return true
			}
		}
		return false
	})
}

// And matches when every matcher matches. And() matches everything.
func And(matchers ...RequestMatcher) RequestMatcher {
	return MatcherFunc(func(r *http.Request) bool {
		for _, m := range matchers {
			if !m.Matches(r) {
				return false
			}
		}
		return true
	})
}

// Or matches when any matcher matches. Or() matches nothing.
func Or(matchers ...RequestMatcher) RequestMatcher {
	return MatcherFunc(func(r *http.Request) bool {
		for _, m := range matchers {
			if m.Matches(r) {
				return true
			}
		}
		return false
	})
}

// Not inverts m.
func Not(m RequestMatcher) RequestMatcher {
	return MatcherFunc(func(r *http.Request) bool { return !m.Matches(r) })
}
