package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Invalidator drops cached price history of one ticker.
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) (int, error)
}

// CacheHandler serves cache maintenance endpoints.
type CacheHandler struct {
	cache Invalidator
}

// NewCacheHandler creates a CacheHandler.
func NewCacheHandler(cache Invalidator) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// Invalidate はDELETE /api/cache/:code を処理し、該当銘柄のキャッシュを全期間分削除します。
// 次回のリクエストはデータプロバイダーから再取得されます。
func (h *CacheHandler) Invalidate(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}

	n, err := h.cache.Invalidate(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": code, "deleted": n})
}
