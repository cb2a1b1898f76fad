package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrGameNotFound is returned when the catalog has no game with the requested id.
	ErrGameNotFound = errors.New("catalog: game not found")
	// ErrCatalogUnavailable is returned when no catalog is configured behind a wrapper.
	ErrCatalogUnavailable = errors.New("catalog: unavailable")
)

// RateLimitError captures rate limit responses from the upstream catalog.
type RateLimitError struct {
	Catalog    string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "catalog rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
