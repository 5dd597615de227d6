package handlers

import (
	"net/http"

	"fresh-retail-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// DashboardHandler ダッシュボード向け集計のハンドラー
type DashboardHandler struct {
	store      *services.StoreService
	monitoring *services.MonitoringService
}

// NewDashboardHandler 新しいダッシュボードハンドラーを作成
func NewDashboardHandler(store *services.StoreService, monitoring *services.MonitoringService) *DashboardHandler {
	return &DashboardHandler{
		store:      store,
		monitoring: monitoring,
	}
}

// GetMetrics 累積サステナビリティメトリクスを返す
func (dh *DashboardHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dh.store.Metrics(),
	})
}

// GetMonitoringSummary 集計済みリクエストログを返す
func (dh *DashboardHandler) GetMonitoringSummary(c *gin.Context) {
	periodStr := c.DefaultQuery("period", "24h")
	var hours int

	switch periodStr {
	case "1h":
		hours = 1
	case "24h":
		hours = 24
	case "7d":
		hours = 24 * 7
	default:
		hours = 24
	}

	c.JSON(http.StatusOK, dh.monitoring.Summary(hours))
}

// HealthCheck 外部のヘルスチェッカー向けの応答
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Fresh Retail API",
	})
}
