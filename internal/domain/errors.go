package domain

import "errors"

var (
	// ErrProductNotFound is returned when no provider yields a usable match
	ErrProductNotFound = errors.New("product not found")

	// ErrProviderUnavailable is returned when a provider cannot be reached or answers with an error status
	ErrProviderUnavailable = errors.New("provider request failed")

	// ErrMalformedResponse is returned when a provider body cannot be decoded
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrRateLimited is returned when waiting for the rate limiter fails
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownProvider is returned when a provider chain names an unregistered provider
	ErrUnknownProvider = errors.New("unknown provider")
)
