// Package services contains the business logic of the search backend.
//
// Services sit between the HTTP handlers and the repository layer. They
// validate input, enforce usage limits, and keep the usage counters
// consistent. All exported methods honour context cancellation.
package services

import "errors"

var (
	// ErrEmptyQuery is returned when a search is recorded with a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrQueryTooLong is returned when a query exceeds MaxQueryRunes.
	ErrQueryTooLong = errors.New("query exceeds maximum length")

	// ErrDailyLimitReached is returned when a non-premium user has already
	// used their daily search allowance.
	ErrDailyLimitReached = errors.New("daily search limit reached")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidPlatform is returned when an identifier does not name a
	// registered platform.
	ErrInvalidPlatform = errors.New("unknown platform")

	// ErrTrialAlreadyUsed is returned when a free trial is started more
	// than once.
	ErrTrialAlreadyUsed = errors.New("trial already started")
)

// MaxQueryRunes bounds the accepted search query length.
const MaxQueryRunes = 400
