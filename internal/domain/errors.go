package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRegionNotFound signals a region id missing from the catalog.
	ErrRegionNotFound = errors.New("region not found")
	// ErrInvalidQuery signals a malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrFetch signals a failed upstream page fetch.
	ErrFetch = errors.New("upstream fetch failed")
	// ErrStrategyUnavailable signals that a fetch strategy cannot address the query.
	ErrStrategyUnavailable = errors.New("strategy unavailable")
)

// FetchError describes a single failed upstream request.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	Strategy   string
	Page       int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: strategy %s page %d: status %d: %v",
			ErrFetch.Error(), e.Strategy, e.Page, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: strategy %s page %d: %v", ErrFetch.Error(), e.Strategy, e.Page, e.Err)
}

// Unwrap exposes both ErrFetch and the underlying cause to errors.Is.
func (e *FetchError) Unwrap() []error { return []error{ErrFetch, e.Err} }

// NewFetchError creates a fetch error.
func NewFetchError(strategy string, page, status int, err error) error {
	return &FetchError{Strategy: strategy, Page: page, StatusCode: status, Err: err}
}
