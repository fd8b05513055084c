package review

import "errors"

var (
	// ErrNoCredentials indicates the AI client has no API key configured.
	ErrNoCredentials = errors.New("ai credentials not configured")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// ErrUnavailable covers transport and API failures.
	ErrUnavailable = errors.New("ai service unavailable")

	ErrEmptyResponse     = errors.New("ai returned an empty response")
	ErrMalformedResponse = errors.New("ai returned a malformed response")
)
