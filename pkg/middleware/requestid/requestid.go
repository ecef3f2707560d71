package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderKey carries the correlation id of an outgoing request.
const HeaderKey = "X-Request-ID"

// Transport assigns a unique request ID to each outgoing HTTP request that
// does not already carry one.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(HeaderKey) != "" {
			return next.RoundTrip(req)
		}
		clone := req.Clone(req.Context())
		clone.Header.Set(HeaderKey, uuid.NewString())
		return next.RoundTrip(clone)
	})
}

// Value returns the request ID carried by the request, if any.
func Value(req *http.Request) string {
	if req == nil {
		return ""
	}
	return req.Header.Get(HeaderKey)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
