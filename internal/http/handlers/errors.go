// This file centralizes the symbolic error codes mapped to HTTP responses via
// the fail() helper. The codes give clients a stable, machine-readable error
// taxonomy alongside the human-readable messages.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes (bad_request, not_found, ...) mirror common HTTP status
//     semantics.
//   - Domain codes (unknown_platform, daily_limit_reached, ...) convey
//     business failures that a status alone cannot.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeUnknownPlatform   = "unknown_platform"
	ErrCodeEmptyQuery        = "empty_query_unsupported"
	ErrCodeQueryTooLong      = "query_too_long"
	ErrCodeDailyLimitReached = "daily_limit_reached"
	ErrCodeTrialAlreadyUsed  = "trial_already_used"
	ErrCodeInvalidLanguage   = "invalid_language"
	ErrCodeUpstreamError     = "upstream_error"
	ErrCodeDecodeError       = "decode_error"
	ErrCodeListFailed        = "list_failed"
	ErrCodeCreateFailed      = "create_failed"
)
