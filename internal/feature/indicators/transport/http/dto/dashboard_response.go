// Package dto defines the chart-ready payload of the dashboard.
package dto

import (
	candledto "stock_dashboard/internal/feature/candles/transport/http/dto"
	"stock_dashboard/internal/feature/indicators/domain/entity"
	"stock_dashboard/internal/feature/indicators/domain/indicator"
)

// NoDataMessage is shown when the query matched no trading days.
const NoDataMessage = "no data"

// Point is one defined value of a line chart.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// LineSeries is a named line keyed by date. Undefined positions are omitted.
type LineSeries struct {
	Name   string  `json:"name"`
	Title  string  `json:"title,omitempty"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Candlestick holds the OHLC arrays of the main chart plus its overlays.
type Candlestick struct {
	Dates    []string     `json:"dates"`
	Open     []float64    `json:"open"`
	High     []float64    `json:"high"`
	Low      []float64    `json:"low"`
	Close    []float64    `json:"close"`
	Overlays []LineSeries `json:"overlays"`
}

// DashboardResponse is the body of GET /api/dashboard.
type DashboardResponse struct {
	Symbol      string                     `json:"symbol"`
	Start       string                     `json:"start"`
	End         string                     `json:"end"`
	Message     string                     `json:"message,omitempty"`
	Table       []candledto.CandleResponse `json:"table"`
	Candlestick Candlestick                `json:"candlestick"`
	RSI         LineSeries                 `json:"rsi"`
	CCI         LineSeries                 `json:"cci"`
	Volatility  LineSeries                 `json:"volatility"`
}

// NewDashboardResponse converts an enriched series into chart payloads.
// Every slice in the result is non-nil so an empty series renders as empty charts.
func NewDashboardResponse(es entity.EnrichedSeries, start, end string) DashboardResponse {
	dates := make([]string, len(es.Bars))
	cs := Candlestick{
		Dates: dates,
		Open:  make([]float64, len(es.Bars)),
		High:  make([]float64, len(es.Bars)),
		Low:   make([]float64, len(es.Bars)),
		Close: make([]float64, len(es.Bars)),
	}
	for i, b := range es.Bars {
		dates[i] = b.Date()
		cs.Open[i] = b.Open
		cs.High[i] = b.High
		cs.Low[i] = b.Low
		cs.Close[i] = b.Close
	}
	cs.Overlays = []LineSeries{
		line("MA9", "", "", dates, es.MA9),
		line("MA20", "", "", dates, es.MA20),
		line("MA50", "", "", dates, es.MA50),
		line("Upper Bollinger Band", "", "red", dates, es.Upper),
		line("Lower Bollinger Band", "", "blue", dates, es.Lower),
	}

	resp := DashboardResponse{
		Symbol:      es.Symbol,
		Start:       start,
		End:         end,
		Table:       candledto.FromCandles(es.Bars),
		Candlestick: cs,
		RSI:         line("RSI", "Relative Strength Index (RSI)", "", dates, es.RSI),
		CCI:         line("CCI", "Commodity Channel Index (CCI)", "", dates, es.CCI),
		Volatility:  line("Volatility", "Volatility (21-day)", "", dates, es.Volatility),
	}
	if es.Empty() {
		resp.Message = NoDataMessage
	}
	return resp
}

func line(name, title, color string, dates []string, s indicator.Series) LineSeries {
	pts := make([]Point, 0, len(s))
	for i, v := range s {
		if !v.Valid || i >= len(dates) {
			continue
		}
		pts = append(pts, Point{Date: dates[i], Value: v.Float64})
	}
	return LineSeries{Name: name, Title: title, Color: color, Points: pts}
}
