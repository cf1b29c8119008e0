// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/candles/domain"
	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/feature/candles/transport/http/dto"
	"stock_dashboard/internal/shared/daterange"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc       CandlesUsecase
	defaults daterange.Defaults
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase, defaults daterange.Defaults) *CandlesHandler {
	return &CandlesHandler{uc: uc, defaults: defaults}
}

// GetCandlesHandler は銘柄コードと期間を受け取り、ローソク足データをJSONで返します。
//
// エンドポイント例:
// GET /candles/:code?start=2003-01-01&end=2023-01-01
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	// 未指定の場合はデフォルト値を使用
	start, end, err := daterange.Parse(c.Query("start"), c.Query("end"), h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	candles, err := h.uc.GetCandles(c.Request.Context(), code, start, end)
	if err != nil {
		c.JSON(StatusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromCandles(candles))
}

// StatusFor maps usecase errors to HTTP status codes.
// Query validation failures are the caller's fault; everything else is an upstream failure.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptySymbol), errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
