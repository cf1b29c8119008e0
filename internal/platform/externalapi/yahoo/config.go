// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import "time"

// DefaultBaseURL is the public chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL            string            // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	Timeout            time.Duration     // HTTP request timeout
	RateLimitPerMinute int               // Maximum requests per minute, 0 means unlimited
	UserAgent          string            // Yahoo rejects requests without a browser-like agent
	SymbolMap          map[string]string // Maps dashboard aliases to Yahoo tickers
}

// DefaultSymbolMap maps common index aliases to their Yahoo tickers.
func DefaultSymbolMap() map[string]string {
	return map[string]string{
		"SPX500": "^GSPC",
		"SPX":    "^GSPC",
		"SP500":  "^GSPC",
		"NDX":    "^NDX",
		"DJI":    "^DJI",
	}
}
