package services

import (
	"math/rand"
	"testing"

	"fresh-retail-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

// newTestStore シード固定の状態コンテナを作成
func newTestStore() *StoreService {
	return NewStoreService(NewPricingService(), NewRecommendationService(), rand.New(rand.NewSource(1)))
}

// urgentProduct urgent推奨を必ず発生させる商品
func urgentProduct(id string) models.Product {
	return models.Product{
		ID:             id,
		Name:           "Greek Yogurt",
		Category:       "dairy",
		InventoryCount: 30,
		BasePrice:      3.49,
		CurrentPrice:   3.49,
		SalesVelocity:  0.2,
		DaysToExpiry:   1,
		Status:         models.StatusUrgent,
	}
}

func TestSeedRegeneratesRecommendations(t *testing.T) {
	store := newTestStore()

	store.Seed([]models.Product{urgentProduct("product-1")})

	recommendations := store.Recommendations()
	assert.Len(t, recommendations, 1)
	assert.Equal(t, "urgent-product-1", recommendations[0].ID)
}

func TestAcceptRecommendation(t *testing.T) {
	store := newTestStore()
	store.Seed([]models.Product{urgentProduct("product-1")})

	err := store.AcceptRecommendation("urgent-product-1")
	assert.NoError(t, err)

	// 一覧から消える
	assert.Empty(t, store.Recommendations())

	// メトリクスが加算される
	metrics := store.Metrics()
	assert.Equal(t, 1, metrics.TotalItemsOptimized)
	assert.Greater(t, metrics.ProfitImprovement, 0.0)
	assert.Greater(t, metrics.WasteReduced, 0.0)

	// 受諾済みIDは再生成でも復活しない
	store.Seed([]models.Product{urgentProduct("product-1")})
	assert.Empty(t, store.Recommendations())
}

func TestAcceptRecommendationNotFound(t *testing.T) {
	store := newTestStore()
	store.Seed([]models.Product{urgentProduct("product-1")})

	err := store.AcceptRecommendation("urgent-unknown")
	assert.Error(t, err)

	// 既存の一覧は変わらない
	assert.Len(t, store.Recommendations(), 1)
}

func TestDismissRecommendation(t *testing.T) {
	store := newTestStore()
	store.Seed([]models.Product{urgentProduct("product-1")})

	err := store.DismissRecommendation("urgent-product-1")
	assert.NoError(t, err)
	assert.Empty(t, store.Recommendations())

	// 却下は記録されないため、条件が続けば再生成で再出現する
	store.Seed([]models.Product{urgentProduct("product-1")})
	assert.Len(t, store.Recommendations(), 1)

	// メトリクスは動かない
	assert.Equal(t, 0, store.Metrics().TotalItemsOptimized)
}

func TestProductsRederivesStatus(t *testing.T) {
	store := newTestStore()

	// 保存時のstatusが古くても読み出し時に再導出される
	stale := urgentProduct("product-1")
	stale.Status = models.StatusFresh
	store.Seed([]models.Product{stale})

	products := store.Products()
	assert.Len(t, products, 1)
	assert.Equal(t, models.StatusUrgent, products[0].Status)
}

func TestAddProduct(t *testing.T) {
	store := newTestStore()

	product, err := store.AddProduct(models.CreateProductRequest{
		Name:            "Artisan Bread",
		Category:        "bakery",
		InventoryCount:  40,
		ExpiryDate:      "2030-01-01",
		BasePrice:       4.50,
		SalesVelocity:   0.2,
		CompetitorPrice: 4.30,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, 4.50, product.CurrentPrice)
	assert.Equal(t, models.StatusFresh, product.Status)
	assert.Greater(t, product.DaysToExpiry, 5)
	assert.Len(t, store.Products(), 1)
}

func TestAddProductInvalidExpiryDate(t *testing.T) {
	store := newTestStore()

	_, err := store.AddProduct(models.CreateProductRequest{
		Name:       "Artisan Bread",
		Category:   "bakery",
		ExpiryDate: "not-a-date",
		BasePrice:  4.50,
	})

	assert.Error(t, err)
	assert.Empty(t, store.Products())
}

func TestUpdateProduct(t *testing.T) {
	store := newTestStore()
	store.Seed([]models.Product{urgentProduct("product-1")})

	inventory := 95
	velocity := 0.1
	updated, err := store.UpdateProduct("product-1", models.UpdateProductRequest{
		InventoryCount: &inventory,
		SalesVelocity:  &velocity,
		ExpiryDate:     "2030-01-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, 95, updated.InventoryCount)
	assert.Equal(t, 0.1, updated.SalesVelocity)
	// 期限が延びたのでステータスも変わる
	assert.Equal(t, models.StatusFresh, updated.Status)

	// 更新で推奨も作り直される（urgentではなくmarkdownになる）
	recommendations := store.Recommendations()
	assert.NotEmpty(t, recommendations)
	assert.Equal(t, "markdown-product-1", recommendations[0].ID)
}

func TestUpdateProductValidation(t *testing.T) {
	store := newTestStore()
	store.Seed([]models.Product{urgentProduct("product-1")})

	bad := 1.5
	_, err := store.UpdateProduct("product-1", models.UpdateProductRequest{SalesVelocity: &bad})
	assert.Error(t, err)

	negative := -1
	_, err = store.UpdateProduct("product-1", models.UpdateProductRequest{InventoryCount: &negative})
	assert.Error(t, err)

	_, err = store.UpdateProduct("missing", models.UpdateProductRequest{})
	assert.Error(t, err)
}

func TestDeleteProduct(t *testing.T) {
	store := newTestStore()
	store.Seed([]models.Product{urgentProduct("product-1")})

	assert.NoError(t, store.DeleteProduct("product-1"))
	assert.Empty(t, store.Products())
	assert.Empty(t, store.Recommendations())

	assert.Error(t, store.DeleteProduct("product-1"))
}

func TestApplyDynamicPricingAndFlashDeals(t *testing.T) {
	store := newTestStore()

	// 競合・在庫・需要の影響を消し、期限切迫のみ効かせた2商品。
	// deep: 残0日 → 下限クランプで-20%。mild: 残3日 → -16%。
	deep := models.Product{
		ID: "deep", Name: "Cod Fillets", Category: "seafood",
		InventoryCount: 40, BasePrice: 10.00, CurrentPrice: 10.00,
		SalesVelocity: 0.5, CompetitorPrice: 10.00, DaysToExpiry: 0,
	}
	mild := deep
	mild.ID = "mild"
	mild.DaysToExpiry = 3
	store.Seed([]models.Product{deep, mild})

	products := store.ApplyDynamicPricing()
	assert.Len(t, products, 2)

	byID := map[string]models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.InDelta(t, 8.00, byID["deep"].CurrentPrice, 0.001)
	assert.InDelta(t, -20.0, byID["deep"].PriceChangePercentage, 0.001)
	assert.InDelta(t, 8.40, byID["mild"].CurrentPrice, 0.001)
	assert.InDelta(t, -16.0, byID["mild"].PriceChangePercentage, 0.001)

	// 価格が動いた件数がメトリクスに積まれる
	assert.Equal(t, 2, store.Metrics().TotalItemsOptimized)

	// フラッシュディールは値下げ幅の大きい順
	deals := store.FlashDeals()
	assert.Len(t, deals, 2)
	assert.Equal(t, "deep", deals[0].ID)
	assert.Equal(t, "mild", deals[1].ID)
}

func TestFlashDealsThreshold(t *testing.T) {
	store := newTestStore()

	// -10%ちょうどは対象外
	store.Seed([]models.Product{
		{ID: "a", PriceChangePercentage: -10.0, DaysToExpiry: 5},
		{ID: "b", PriceChangePercentage: -10.1, DaysToExpiry: 5},
		{ID: "c", PriceChangePercentage: 2.0, DaysToExpiry: 5},
	})

	deals := store.FlashDeals()
	assert.Len(t, deals, 1)
	assert.Equal(t, "b", deals[0].ID)
}

func TestQuoteProductUsesCurrentEnvironment(t *testing.T) {
	store := newTestStore()

	product := models.Product{
		Category: "produce", InventoryCount: 40,
		BasePrice: 10.00, CurrentPrice: 10.00,
		SalesVelocity: 0.5, CompetitorPrice: 10.00, DaysToExpiry: 7,
	}

	// 初期環境は平常（impact 1.0）なので調整なし
	quote := store.QuoteProduct(product, nil, nil)
	assert.InDelta(t, 10.00, quote.NewPrice, 0.001)

	// 明示指定した環境が優先される
	festival := models.LocalEvent{Name: "Local Festival", Type: models.EventFestival, Impact: 1.4}
	quote = store.QuoteProduct(product, nil, &festival)
	assert.Greater(t, quote.NewPrice, 10.00)

	// 見積もりは状態を変えない
	assert.Empty(t, store.Products())
}

func TestRefreshUpdatesEnvironmentAndMetrics(t *testing.T) {
	store := newTestStore()

	sunny := models.WeatherData{Condition: models.WeatherSunny, Temperature: 28, Impact: 1.1}
	festival := models.LocalEvent{Name: "Local Festival", Type: models.EventFestival, Impact: 1.4}

	// カタログが空ならメトリクスは動かない
	store.Refresh(sunny, festival)
	weather, event := store.Environment()
	assert.Equal(t, models.WeatherSunny, weather.Condition)
	assert.Equal(t, "Local Festival", event.Name)
	assert.Equal(t, models.SustainabilityMetrics{}, store.Metrics())

	// 商品があればメトリクスが上限付きでドリフトする
	store.Seed([]models.Product{urgentProduct("product-1")})
	for i := 0; i < 200; i++ {
		store.Refresh(sunny, festival)
	}
	metrics := store.Metrics()
	assert.Greater(t, metrics.WasteReduced, 0.0)
	assert.LessOrEqual(t, metrics.WasteReduced, 25.0)
	assert.Greater(t, metrics.ProfitImprovement, 0.0)
	assert.LessOrEqual(t, metrics.ProfitImprovement, 20.0)
	assert.GreaterOrEqual(t, metrics.CO2Saved, 0)
}
