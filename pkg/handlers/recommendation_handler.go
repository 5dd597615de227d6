package handlers

import (
	"net/http"

	"fresh-retail-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// RecommendationHandler 推奨アクションのハンドラー
type RecommendationHandler struct {
	store           *services.StoreService
	recommendations *services.RecommendationService
	simulation      *services.SimulationService
}

// NewRecommendationHandler 新しい推奨ハンドラーを作成
func NewRecommendationHandler(store *services.StoreService, recommendations *services.RecommendationService, simulation *services.SimulationService) *RecommendationHandler {
	return &RecommendationHandler{
		store:           store,
		recommendations: recommendations,
		simulation:      simulation,
	}
}

// ListRecommendations 現在の推奨一覧を返す
func (rh *RecommendationHandler) ListRecommendations(c *gin.Context) {
	recommendations := rh.store.Recommendations()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    recommendations,
		"count":   len(recommendations),
	})
}

// AcceptRecommendation 推奨を受諾する。受諾済みIDは再生成時にも除外される。
func (rh *RecommendationHandler) AcceptRecommendation(c *gin.Context) {
	id := c.Param("id")

	if err := rh.store.AcceptRecommendation(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}

// DismissRecommendation 推奨を一覧から外す（記録はしない）
func (rh *RecommendationHandler) DismissRecommendation(c *gin.Context) {
	id := c.Param("id")

	if err := rh.store.DismissRecommendation(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}

// GetTransferRecommendations 店舗間の在庫移動候補を返す（デモ店舗ベース）
func (rh *RecommendationHandler) GetTransferRecommendations(c *gin.Context) {
	stores := rh.simulation.GenerateStores()
	transfers := rh.recommendations.GenerateTransferRecommendations(stores)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transfers,
		"count":   len(transfers),
	})
}
