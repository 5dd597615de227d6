package handlers

import (
	"net/http"

	"fresh-retail-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// EnvironmentHandler 気象・イベントスナップショットのハンドラー
type EnvironmentHandler struct {
	store      *services.StoreService
	simulation *services.SimulationService
}

// NewEnvironmentHandler 新しい環境ハンドラーを作成
func NewEnvironmentHandler(store *services.StoreService, simulation *services.SimulationService) *EnvironmentHandler {
	return &EnvironmentHandler{
		store:      store,
		simulation: simulation,
	}
}

// GetEnvironment 現在の気象・イベントスナップショットを返す
func (eh *EnvironmentHandler) GetEnvironment(c *gin.Context) {
	weather, event := eh.store.Environment()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"weather": weather,
			"event":   event,
		},
	})
}

// RefreshEnvironment 定期タイマーと同じ遷移を即時実行する。
// 新しい環境を合成し、推奨とメトリクスを更新して返す。
func (eh *EnvironmentHandler) RefreshEnvironment(c *gin.Context) {
	weather := eh.simulation.GenerateWeather()
	event := eh.simulation.GenerateLocalEvent()
	eh.store.Refresh(weather, event)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"weather":         weather,
			"event":           event,
			"recommendations": eh.store.Recommendations(),
		},
	})
}
