package httpclient

import (
	"net/http"
	"regexp"
	"time"
)

// TokenSource yields the bearer token to attach, or "" for anonymous calls.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function into a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Observer receives one sample per completed round trip.
type Observer interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Bearer sets "Authorization: Bearer <token>" on every request when the
// source holds a token at send time. The token is read per request so a
// login or logout takes effect on the very next call.
func Bearer(tokens TokenSource, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if tokens == nil {
			return next.RoundTrip(req)
		}
		token := tokens.Token()
		if token == "" {
			return next.RoundTrip(req)
		}
		clone := req.Clone(req.Context())
		clone.Header.Set("Authorization", "Bearer "+token)
		return next.RoundTrip(clone)
	})
}

func observe(o Observer, next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		o.ObserveHTTPRequest(req.Method, RouteLabel(req.URL.Path), status, time.Since(start))
		return resp, err
	})
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// RouteLabel collapses numeric path segments so metric labels stay bounded.
func RouteLabel(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
