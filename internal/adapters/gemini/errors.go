package gemini

import "errors"

// Sentinel kinds for generative endpoint errors.
var (
	// ErrCredentialMissing means no API key is configured. It is returned
	// before any network call.
	ErrCredentialMissing = errors.New("gemini: api key missing")
	// ErrUpstreamStatus wraps a non-2xx response.
	ErrUpstreamStatus = errors.New("gemini: upstream status")
	// ErrEmptyResponse means the response had no candidate text.
	ErrEmptyResponse = errors.New("gemini: empty response")
	// ErrRateLimited means the local limiter refused the call.
	ErrRateLimited = errors.New("gemini: rate limited")
)
