package testutil

import (
	"net/http"
	"time"

	"personalinfo/pkg/requestcontext"
)

// WithRequestTime pins the request clock, simulating the RequestTime middleware.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}
