// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import "time"

// DefaultBaseURL is the public Twelve Data REST host.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey   string        // API key for authentication
	BaseURL            string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout            time.Duration // HTTP request timeout
	RateLimitPerMinute int           // Free plan allows 8 requests per minute
}
