// Package domain holds the sentinel errors of the candles feature.
package domain

import "errors"

var (
	// ErrEmptySymbol is returned when no ticker was supplied.
	ErrEmptySymbol = errors.New("ticker symbol is required")
	// ErrInvalidDateRange is returned when the start date is after the end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	// ErrSymbolNotFound is returned by market adapters when the ticker is unknown
	// or the market was closed for the whole requested range.
	ErrSymbolNotFound = errors.New("no data found for symbol")
	// ErrUnorderedSeries is returned when bar dates are not strictly increasing.
	ErrUnorderedSeries = errors.New("price series dates are not strictly increasing")
	// ErrInvalidCandle is returned when a bar violates low <= open,close <= high.
	ErrInvalidCandle = errors.New("price series contains an inconsistent OHLC bar")
)
