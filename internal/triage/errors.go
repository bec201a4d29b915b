package triage

import "errors"

// Common errors returned by triage service implementations
var (
	// ErrAnalysisFailed is returned when triage analysis fails for any general reason
	ErrAnalysisFailed = errors.New("failed to analyze logs")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during analysis")

	// ErrInvalidConfig is returned when the service configuration is invalid
	ErrInvalidConfig = errors.New("invalid analyzer configuration")
)
