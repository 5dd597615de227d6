package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"fresh-retail-api/pkg/models"

	"github.com/google/uuid"
)

// StoreService カタログと推奨の唯一の状態コンテナ。
// すべての遷移はロック配下で1スナップショットに対して行われ、
// エンジン（価格・推奨）は常に純関数として呼び出される。
type StoreService struct {
	mu sync.RWMutex

	pricing         *PricingService
	recommendations *RecommendationService
	rng             *rand.Rand

	products        []models.Product
	weather         models.WeatherData
	event           models.LocalEvent
	recommendedList []models.AIRecommendation
	acceptedIDs     []string
	metrics         models.SustainabilityMetrics
}

// NewStoreService 新しい状態コンテナを作成。初期環境は平常（impact=1.0）。
func NewStoreService(pricing *PricingService, recommendations *RecommendationService, rng *rand.Rand) *StoreService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StoreService{
		pricing:         pricing,
		recommendations: recommendations,
		rng:             rng,
		weather:         models.WeatherData{Condition: models.WeatherCloudy, Temperature: 20, Impact: 1.0},
		event:           models.LocalEvent{Name: "Regular Day", Type: models.EventNone, Impact: 1.0},
	}
}

// Seed カタログを置き換え、推奨を再生成する
func (s *StoreService) Seed(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make([]models.Product, len(products))
	copy(s.products, products)
	s.regenerateLocked()
}

// Products 現在のカタログを返す（statusは読み出し時に再導出）
func (s *StoreService) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		p.Status = models.DeriveStatus(p.DaysToExpiry)
		out[i] = p
	}
	return out
}

// AddProduct 商品を登録する。期限日の解析に失敗した場合はエラー。
func (s *StoreService) AddProduct(req models.CreateProductRequest) (models.Product, error) {
	daysToExpiry, err := models.DaysUntil(req.ExpiryDate, time.Now())
	if err != nil {
		return models.Product{}, fmt.Errorf("invalid expiry date %q: %w", req.ExpiryDate, err)
	}

	product := models.Product{
		ID:              fmt.Sprintf("product-%s", uuid.NewString()[:8]),
		Name:            req.Name,
		Category:        req.Category,
		InventoryCount:  req.InventoryCount,
		ExpiryDate:      req.ExpiryDate,
		BasePrice:       req.BasePrice,
		CurrentPrice:    req.BasePrice,
		SalesVelocity:   req.SalesVelocity,
		CompetitorPrice: req.CompetitorPrice,
		DaysToExpiry:    daysToExpiry,
		Status:          models.DeriveStatus(daysToExpiry),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, product)
	s.regenerateLocked()
	return product, nil
}

// UpdateProduct 既存商品を部分更新する。basePriceは作成後に変更できない。
func (s *StoreService) UpdateProduct(id string, req models.UpdateProductRequest) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("product %s not found", id)
	}

	p := s.products[idx]
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.InventoryCount != nil {
		if *req.InventoryCount < 0 {
			return models.Product{}, fmt.Errorf("inventory count must be non-negative")
		}
		p.InventoryCount = *req.InventoryCount
	}
	if req.SalesVelocity != nil {
		if *req.SalesVelocity < 0 || *req.SalesVelocity > 1 {
			return models.Product{}, fmt.Errorf("sales velocity must be in [0,1]")
		}
		p.SalesVelocity = *req.SalesVelocity
	}
	if req.CompetitorPrice != nil {
		if *req.CompetitorPrice < 0 {
			return models.Product{}, fmt.Errorf("competitor price must be non-negative")
		}
		p.CompetitorPrice = *req.CompetitorPrice
	}
	if req.ExpiryDate != "" {
		daysToExpiry, err := models.DaysUntil(req.ExpiryDate, time.Now())
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid expiry date %q: %w", req.ExpiryDate, err)
		}
		p.ExpiryDate = req.ExpiryDate
		p.DaysToExpiry = daysToExpiry
	}
	p.Status = models.DeriveStatus(p.DaysToExpiry)

	s.products[idx] = p
	s.regenerateLocked()
	return p, nil
}

// DeleteProduct 商品を削除する
func (s *StoreService) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return fmt.Errorf("product %s not found", id)
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	s.regenerateLocked()
	return nil
}

// ApplyDynamicPricing 現在の環境スナップショットで全商品を再価格付けする。
// 価格が動いた件数をtotalItemsOptimizedに加算する。
func (s *StoreService) ApplyDynamicPricing() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i, p := range s.products {
		quote := s.pricing.CalculateDynamicPrice(p, s.weather, s.event)
		if quote.NewPrice != p.CurrentPrice {
			changed++
		}
		p.CurrentPrice = quote.NewPrice
		p.PriceChangePercentage = quote.PriceChangePercentage
		p.DemandScore = s.pricing.CalculateDemandScore(p, s.weather, s.event, nil)
		p.Status = models.DeriveStatus(p.DaysToExpiry)
		s.products[i] = p
	}
	s.metrics.TotalItemsOptimized += changed
	s.regenerateLocked()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// QuoteProduct 状態を変えずに1商品の価格を見積もる。
// weather/eventがnilの場合は現在の環境スナップショットを使う。
func (s *StoreService) QuoteProduct(product models.Product, weather *models.WeatherData, event *models.LocalEvent) models.PriceQuote {
	s.mu.RLock()
	w, e := s.weather, s.event
	s.mu.RUnlock()
	if weather != nil {
		w = *weather
	}
	if event != nil {
		e = *event
	}
	product.Status = models.DeriveStatus(product.DaysToExpiry)
	return s.pricing.CalculateDynamicPrice(product, w, e)
}

// Environment 現在の気象・イベントスナップショットを返す
func (s *StoreService) Environment() (models.WeatherData, models.LocalEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weather, s.event
}

// Refresh 環境スナップショットを入れ替え、推奨とメトリクスを更新する。
// 定期タイマーの本体であり、手動リフレッシュでも同じ遷移を使う。
func (s *StoreService) Refresh(weather models.WeatherData, event models.LocalEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.weather = weather
	s.event = event

	if len(s.products) > 0 {
		s.metrics.WasteReduced = math.Min(25, s.metrics.WasteReduced+s.rng.Float64()*0.5)
		s.metrics.ProfitImprovement = math.Min(20, s.metrics.ProfitImprovement+s.rng.Float64()*0.3)
		s.metrics.CO2Saved += s.rng.Intn(3)
		s.metrics.FlashDealConversions += s.rng.Intn(2)
		s.regenerateLocked()
	}
}

// Recommendations 現在の推奨一覧を返す
func (s *StoreService) Recommendations() []models.AIRecommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AIRecommendation, len(s.recommendedList))
	copy(out, s.recommendedList)
	return out
}

// AcceptRecommendation 推奨を受諾する。IDを記録して以後の再生成から除外し、
// メトリクスを加算する。現在の一覧に存在しないIDはエラー。
func (s *StoreService) AcceptRecommendation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeRecommendationLocked(id) {
		return fmt.Errorf("recommendation %s not found", id)
	}
	s.acceptedIDs = append(s.acceptedIDs, id)

	s.metrics.TotalItemsOptimized++
	s.metrics.ProfitImprovement = math.Min(20, s.metrics.ProfitImprovement+s.rng.Float64()*0.5)
	s.metrics.WasteReduced = math.Min(25, s.metrics.WasteReduced+s.rng.Float64()*0.3)
	return nil
}

// DismissRecommendation 推奨を一覧から外す。受諾と違い記録は残さないため、
// 条件が続けば次回の再生成で再出現する。
func (s *StoreService) DismissRecommendation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeRecommendationLocked(id) {
		return fmt.Errorf("recommendation %s not found", id)
	}
	return nil
}

// Metrics 現在の累積メトリクスを返す
func (s *StoreService) Metrics() models.SustainabilityMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// FlashDeals 値下げ幅が10%を超える商品を、値下げ幅の大きい順に返す
func (s *StoreService) FlashDeals() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deals := []models.Product{}
	for _, p := range s.products {
		if p.PriceChangePercentage < -10 {
			p.Status = models.DeriveStatus(p.DaysToExpiry)
			deals = append(deals, p)
		}
	}
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].PriceChangePercentage < deals[j].PriceChangePercentage
	})
	return deals
}

// regenerateLocked 推奨一覧を作り直し、受諾済みIDを除外する。ロック保持前提。
func (s *StoreService) regenerateLocked() {
	generated := s.recommendations.GenerateAIRecommendations(s.products)
	s.recommendedList = s.recommendations.UpdateRecommendationsBasedOnActions(generated, s.acceptedIDs)
}

func (s *StoreService) indexOfLocked(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *StoreService) removeRecommendationLocked(id string) bool {
	for i, rec := range s.recommendedList {
		if rec.ID == id {
			s.recommendedList = append(s.recommendedList[:i], s.recommendedList[i+1:]...)
			return true
		}
	}
	return false
}
