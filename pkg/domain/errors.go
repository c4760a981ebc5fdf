package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrProviderUnavailable is recorded when a provider catalog could not be
	// fetched or parsed. It never reaches a caller as a request error.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrUnsupportedAsset is returned when a provider does not list the asset
	ErrUnsupportedAsset = errors.New("unsupported crypto asset")
	// ErrUnsupportedNetwork is returned when the asset is not offered on the network
	ErrUnsupportedNetwork = errors.New("unsupported network")
	// ErrUnsupportedFiat is returned when the fiat currency has no payment route
	ErrUnsupportedFiat = errors.New("unsupported fiat currency")
	// ErrInvalidRequest is returned for malformed or provider-incompatible input
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownProvider is returned for provider names outside the known set
	ErrUnknownProvider = fmt.Errorf("%w: unknown provider", ErrInvalidRequest)
)

// InvalidRequestError describes which field of a request was rejected.
type InvalidRequestError struct {
	Field  string
	Reason string
}

// NewInvalidRequest creates an InvalidRequestError.
func NewInvalidRequest(field, reason string) *InvalidRequestError {
	return &InvalidRequestError{Field: field, Reason: reason}
}

func (e *InvalidRequestError) Error() string {
	if e.Field == "" {
		return ErrInvalidRequest.Error() + ": " + e.Reason
	}
	return fmt.Sprintf("%s: '%s' %s", ErrInvalidRequest, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidRequest.
func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}
