package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damon-houk/nkap/internal/domain/entity"
)

// Errors returned by a RateProvider. They are final for the request that
// triggered the fetch; providers do not retry.
var (
	// ErrMissingCredential is returned when no API credential is configured
	ErrMissingCredential = errors.New("the `API_ID` environment variable is not well configured")
	// ErrInvalidCredential is returned when the API rejects the credential (HTTP 401)
	ErrInvalidCredential = errors.New("invalid App ID provided")
	// ErrRateLimited is returned when the API restricts access for over-use (HTTP 403)
	ErrRateLimited = errors.New("access restricted for repeated over-use")
	// ErrTransport is returned when the API could not be reached
	ErrTransport = errors.New("exchange rate API unreachable")
	// ErrDecode is returned when the API response body is malformed
	ErrDecode = errors.New("failed to read the API response")
)

// UnexpectedStatusError is returned for any other non-success HTTP status
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected api response. Status: %d", e.StatusCode)
}

// RateProvider fetches the authoritative rate table from a remote source
type RateProvider interface {
	// FetchRates performs one fetch of the current rate table
	FetchRates(ctx context.Context) (entity.RateTable, error)
}
