// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol represents a ticker offered as a suggestion on the dashboard.
// It contains information about a tradable security including its code,
// name, market, and display ordering.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DefaultSymbols は初回マイグレーション時に登録される銘柄一覧です。
func DefaultSymbols() []Symbol {
	return []Symbol{
		{Code: "AAPL", Name: "Apple Inc.", Market: "NASDAQ", IsActive: true, SortKey: 1},
		{Code: "MSFT", Name: "Microsoft Corporation", Market: "NASDAQ", IsActive: true, SortKey: 2},
		{Code: "GOOGL", Name: "Alphabet Inc.", Market: "NASDAQ", IsActive: true, SortKey: 3},
		{Code: "AMZN", Name: "Amazon.com, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 4},
		{Code: "NVDA", Name: "NVIDIA Corporation", Market: "NASDAQ", IsActive: true, SortKey: 5},
		{Code: "META", Name: "Meta Platforms, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 6},
		{Code: "TSLA", Name: "Tesla, Inc.", Market: "NASDAQ", IsActive: true, SortKey: 7},
		{Code: "^GSPC", Name: "S&P 500", Market: "INDEX", IsActive: true, SortKey: 8},
	}
}
