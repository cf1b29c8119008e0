// Package handler はダッシュボード画面とそのAPIのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	candlehandler "stock_dashboard/internal/feature/candles/transport/handler"
	candledto "stock_dashboard/internal/feature/candles/transport/http/dto"
	"stock_dashboard/internal/feature/indicators/domain/entity"
	"stock_dashboard/internal/feature/indicators/transport/http/dto"
	"stock_dashboard/internal/shared/daterange"
)

//go:embed web/*.html
var webFS embed.FS

// IndexTemplate is the name of the dashboard page template.
const IndexTemplate = "index.html"

// Templates parses the embedded page templates for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(webFS, "web/*.html"))
}

// DashboardUsecase はダッシュボード用の指標付き価格系列を返すユースケースです。
type DashboardUsecase interface {
	GetDashboard(ctx context.Context, symbol string, start, end time.Time) (entity.EnrichedSeries, error)
}

// Defaults are the initial values of the three dashboard inputs.
type Defaults struct {
	Ticker string
	Range  daterange.Defaults
}

// DashboardHandler serves the dashboard page and its JSON API.
type DashboardHandler struct {
	uc       DashboardUsecase
	defaults Defaults
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(uc DashboardUsecase, defaults Defaults) *DashboardHandler {
	return &DashboardHandler{uc: uc, defaults: defaults}
}

// GetDashboard returns the raw table and every chart payload as JSON.
//
// エンドポイント例:
// GET /api/dashboard?ticker=AAPL&start=2003-01-01&end=2023-01-01
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	// 未指定の場合はデフォルト値を使用
	ticker := c.DefaultQuery("ticker", h.defaults.Ticker)
	start, end, err := daterange.Parse(c.Query("start"), c.Query("end"), h.defaults.Range)
	if err != nil {
		c.JSON(http.StatusBadRequest, candledto.ErrorResponse{Error: err.Error()})
		return
	}

	es, err := h.uc.GetDashboard(c.Request.Context(), ticker, start, end)
	if err != nil {
		c.JSON(candlehandler.StatusFor(err), candledto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(es, start.Format(daterange.Layout), end.Format(daterange.Layout)))
}

// Index renders the dashboard page with the default inputs filled in.
func (h *DashboardHandler) Index(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, IndexTemplate, gin.H{
		"Ticker": h.defaults.Ticker,
		"Start":  h.defaults.Range.Start.Format(daterange.Layout),
		"End":    h.defaults.Range.End.Format(daterange.Layout),
	})
}
