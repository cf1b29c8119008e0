// Package router はHTTPルーティングを定義します。
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	candleshandler "stock_dashboard/internal/feature/candles/transport/handler"
	dashboardhandler "stock_dashboard/internal/feature/indicators/transport/handler"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	"stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/logger"
	"stock_dashboard/internal/platform/metrics"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
// Cache and Metrics are optional; their routes are only mounted when set.
type Handlers struct {
	Dashboard   *dashboardhandler.DashboardHandler
	Candles     *candleshandler.CandlesHandler
	Symbols     *symbollisthandler.SymbolHandler
	Health      *handler.HealthHandler
	Cache       *handler.CacheHandler
	Metrics     *metrics.Metrics
	MetricsPath string
}

// NewRouter はginエンジンを生成し、全ルートを登録します。
func NewRouter(log *slog.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestID(), logger.RequestLogger(log))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(h.Metrics.Handler()))
	}
	r.SetHTMLTemplate(dashboardhandler.Templates())

	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// ダッシュボード画面
	r.GET("/", h.Dashboard.Index)

	api := r.Group("/api")
	{
		api.GET("/dashboard", h.Dashboard.GetDashboard)
		if h.Cache != nil {
			api.DELETE("/cache/:code", h.Cache.Invalidate)
		}
	}

	r.GET("/candles/:code", h.Candles.GetCandlesHandler)
	r.GET("/symbols", h.Symbols.List)

	return r
}
