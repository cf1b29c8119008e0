// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Candle represents one daily OHLCV (Open, High, Low, Close, Volume) bar
// for a stock symbol.
type Candle struct {
	Symbol string    // Stock ticker symbol (e.g., "AAPL", "7203.T")
	Time   time.Time // Trading date, normalized to midnight UTC
	Open   float64   // Opening price
	High   float64   // Highest price of the day
	Low    float64   // Lowest price of the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}

// Date returns the bar's trading date formatted as YYYY-MM-DD.
func (c Candle) Date() string {
	return c.Time.UTC().Format(DateLayout)
}

// DateLayout is the calendar date format used across queries, cache keys and responses.
const DateLayout = "2006-01-02"

// Query identifies one price history request.
type Query struct {
	Symbol string
	Start  time.Time // inclusive
	End    time.Time // inclusive
}

// TruncateDate drops the clock part of t and returns midnight UTC of the same calendar day.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
