package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Provider errors
	ErrNoProvider       = fmt.Errorf("no provider supports request")
	ErrProviderFetch    = fmt.Errorf("provider fetch failed")
	ErrProviderResponse = fmt.Errorf("malformed provider response")

	// Cache and store errors
	ErrCacheStore     = fmt.Errorf("cache store failure")
	ErrRecordNotFound = fmt.Errorf("record not found")

	// Service lifecycle errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
