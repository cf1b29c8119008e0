// Package dto defines the HTTP payloads of the candles feature.
package dto

import "stock_dashboard/internal/feature/candles/domain/entity"

// CandleResponse はロウソク足データのレスポンスDTOです。
type CandleResponse struct {
	Time   string  `json:"time"`   // 日付
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume int64   `json:"volume"` // 出来高
}

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromCandles converts domain candles into response rows. The result is never nil.
func FromCandles(cs []entity.Candle) []CandleResponse {
	out := make([]CandleResponse, 0, len(cs))
	for _, x := range cs {
		out = append(out, CandleResponse{
			Time:   x.Date(),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}
	return out
}
