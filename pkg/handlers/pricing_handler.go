package handlers

import (
	"net/http"

	"fresh-retail-api/pkg/models"
	"fresh-retail-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// PricingHandler 動的価格エンジンのハンドラー
type PricingHandler struct {
	store *services.StoreService
}

// NewPricingHandler 新しい価格ハンドラーを作成
func NewPricingHandler(store *services.StoreService) *PricingHandler {
	return &PricingHandler{store: store}
}

// PreviewPrice 1商品の価格を見積もる。カタログの状態は変更しない。
// weather/eventを省略した場合は現在の環境スナップショットを使う。
func (ph *PricingHandler) PreviewPrice(c *gin.Context) {
	var req models.PricingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	// 価格エンジンはbasePrice=0を防御しないため、境界で弾く
	if req.Product.BasePrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "basePrice must be greater than zero",
		})
		return
	}

	quote := ph.store.QuoteProduct(req.Product, req.Weather, req.Event)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// ApplyPricing 現在の環境スナップショットで全商品を再価格付けする
func (ph *PricingHandler) ApplyPricing(c *gin.Context) {
	products := ph.store.ApplyDynamicPricing()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

// GetFlashDeals 値下げ幅10%超の商品一覧を返す
func (ph *PricingHandler) GetFlashDeals(c *gin.Context) {
	deals := ph.store.FlashDeals()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    deals,
		"count":   len(deals),
	})
}
