package ai

import "errors"

// Failure taxonomy for the completion service boundary. Every failure is
// surfaced synchronously as a typed result; nothing here is retried.
var (
	// ErrConfigurationMissing indicates no API credential/endpoint is configured.
	ErrConfigurationMissing = errors.New("ai credential not configured")

	// ErrUpstreamFailure indicates a network/HTTP-level failure calling the service.
	ErrUpstreamFailure = errors.New("ai upstream failure")

	// ErrEmptyResponse indicates the service returned no text.
	ErrEmptyResponse = errors.New("ai returned an empty response")

	// ErrMalformedResponse indicates text was returned but failed schema
	// validation for the requested shape.
	ErrMalformedResponse = errors.New("ai response failed schema validation")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
)
