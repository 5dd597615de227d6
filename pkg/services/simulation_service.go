package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"fresh-retail-api/pkg/models"
)

// SimulationService 合成データ（商品・気象・イベント・店舗）の生成サービス。
// 乱数源は注入式で、テストではシード固定により出力を再現できる。
type SimulationService struct {
	rng *rand.Rand
}

// NewSimulationService 新しいシミュレーションサービスを作成
func NewSimulationService(rng *rand.Rand) *SimulationService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulationService{rng: rng}
}

// カテゴリごとの商品名プール
var productNames = map[string][]string{
	"produce": {"Organic Bananas", "Fresh Strawberries", "Avocados", "Spinach", "Tomatoes", "Blueberries", "Lettuce", "Carrots"},
	"bakery":  {"Artisan Bread", "Croissants", "Muffins", "Donuts", "Bagels", "Cookies", "Cake Slices"},
	"dairy":   {"Organic Milk", "Greek Yogurt", "Fresh Cream", "Cheese Blocks", "Butter", "Cottage Cheese"},
	"deli":    {"Sliced Turkey", "Ham", "Roast Beef", "Chicken Salad", "Potato Salad", "Sandwiches"},
	"seafood": {"Fresh Salmon", "Shrimp", "Cod Fillets", "Tuna Steaks", "Crab Meat", "Lobster Tails"},
}

// GenerateProducts 指定件数の商品を合成する。
// 価格・在庫・velocityのレンジは実店舗のデモ値に合わせている。
func (ss *SimulationService) GenerateProducts(count int) []models.Product {
	products := make([]models.Product, 0, count)

	for i := 0; i < count; i++ {
		category := models.ProductCategories[ss.rng.Intn(len(models.ProductCategories))]
		names := productNames[category]
		name := names[ss.rng.Intn(len(names))]

		daysToExpiry := ss.rng.Intn(10) + 1
		basePrice := math.Round((ss.rng.Float64()*20+2)*100) / 100
		inventoryCount := ss.rng.Intn(100) + 10
		salesVelocity := math.Round((ss.rng.Float64()*0.3+0.1)*100) / 100
		competitorPrice := math.Round(basePrice*(0.9+ss.rng.Float64()*0.2)*100) / 100

		products = append(products, models.Product{
			ID:                    fmt.Sprintf("product-%d", i+1),
			Name:                  fmt.Sprintf("%s %d", name, i+1),
			Category:              category,
			InventoryCount:        inventoryCount,
			ExpiryDate:            time.Now().AddDate(0, 0, daysToExpiry).Format("2006-01-02"),
			BasePrice:             basePrice,
			CurrentPrice:          basePrice,
			SalesVelocity:         salesVelocity,
			CompetitorPrice:       competitorPrice,
			DaysToExpiry:          daysToExpiry,
			DemandScore:           ss.rng.Float64(),
			PriceChangePercentage: 0,
			Status:                models.DeriveStatus(daysToExpiry),
		})
	}

	return products
}

// GenerateWeather 気象スナップショットを合成する
func (ss *SimulationService) GenerateWeather() models.WeatherData {
	conditions := []models.WeatherCondition{models.WeatherSunny, models.WeatherRainy, models.WeatherCloudy}
	condition := conditions[ss.rng.Intn(len(conditions))]

	impact := 1.0
	switch condition {
	case models.WeatherSunny:
		impact = 1.1
	case models.WeatherRainy:
		impact = 0.9
	}

	return models.WeatherData{
		Condition:   condition,
		Temperature: ss.rng.Intn(25) + 15,
		Impact:      impact,
	}
}

// GenerateLocalEvent ローカルイベントのスナップショットを合成する
func (ss *SimulationService) GenerateLocalEvent() models.LocalEvent {
	events := []models.LocalEvent{
		{Name: "Weekend Sale", Type: models.EventWeekend, Impact: 1.2},
		{Name: "Local Festival", Type: models.EventFestival, Impact: 1.4},
		{Name: "Holiday Season", Type: models.EventHoliday, Impact: 1.3},
		{Name: "Regular Day", Type: models.EventNone, Impact: 1.0},
	}
	return events[ss.rng.Intn(len(events))]
}

// GenerateStores デモ用の3店舗を合成する
func (ss *SimulationService) GenerateStores() []models.Store {
	return []models.Store{
		{ID: "store-1", Name: "Downtown SuperCenter", Location: "Downtown District", Products: ss.GenerateProducts(15)},
		{ID: "store-2", Name: "Westside Market", Location: "West Side", Products: ss.GenerateProducts(12)},
		{ID: "store-3", Name: "Northpark Branch", Location: "North Park", Products: ss.GenerateProducts(18)},
	}
}

// Float64 注入された乱数源から一様乱数を取り出す（メトリクスのドリフト用）
func (ss *SimulationService) Float64() float64 {
	return ss.rng.Float64()
}
