package types

import "time"

const (
	// DefaultBaseURL is the default minirag API base URL
	DefaultBaseURL = "http://localhost:8000"

	// APIPrefix is prepended to every route
	APIPrefix = "/api/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "minirag-go/1.0.0"
)
