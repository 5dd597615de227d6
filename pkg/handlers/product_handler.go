package handlers

import (
	"net/http"
	"strconv"

	"fresh-retail-api/pkg/models"
	"fresh-retail-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ProductHandler 商品カタログのハンドラー
type ProductHandler struct {
	store      *services.StoreService
	simulation *services.SimulationService
}

// NewProductHandler 新しい商品ハンドラーを作成
func NewProductHandler(store *services.StoreService, simulation *services.SimulationService) *ProductHandler {
	return &ProductHandler{
		store:      store,
		simulation: simulation,
	}
}

// ListProducts 商品一覧を返す。status/categoryでの絞り込みに対応。
func (ph *ProductHandler) ListProducts(c *gin.Context) {
	status := c.Query("status")
	category := c.Query("category")

	products := ph.store.Products()
	if status != "" || category != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if status != "" && string(p.Status) != status {
				continue
			}
			if category != "" && p.Category != category {
				continue
			}
			filtered = append(filtered, p)
		}
		products = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

// CreateProduct 商品を登録する。数値の妥当性はバインディングで検証する。
func (ph *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	product, err := ph.store.AddProduct(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct 商品を部分更新する
func (ph *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	product, err := ph.store.UpdateProduct(id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct 商品を削除する
func (ph *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := ph.store.DeleteProduct(id); err != nil {
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

// SeedProducts 合成商品でカタログを初期化する
func (ph *ProductHandler) SeedProducts(c *gin.Context) {
	count := 25 // デフォルト件数
	if countStr := c.Query("count"); countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 && n <= 200 {
			count = n
		}
	}

	products := ph.simulation.GenerateProducts(count)
	ph.store.Seed(products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}
