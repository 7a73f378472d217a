package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the caller identity is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a stored document does not exist
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login email/password do not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCacheMiss is returned when data is not found in cache (absent or expired)
	ErrCacheMiss = errors.New("cache miss")

	// ErrAIUnavailable is returned when the AI completion service request fails
	ErrAIUnavailable = errors.New("AI completion request failed")

	// ErrImageNotFound is returned when no image search provider had a result
	ErrImageNotFound = errors.New("no image found")

	// ErrDatabaseUnavailable is returned when the document store cannot be reached
	ErrDatabaseUnavailable = errors.New("database not connected")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
