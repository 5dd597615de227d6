package models

import "time"

// WeatherCondition 天気の種類
type WeatherCondition string

const (
	WeatherSunny  WeatherCondition = "sunny"
	WeatherRainy  WeatherCondition = "rainy"
	WeatherCloudy WeatherCondition = "cloudy"
)

// EventType ローカルイベントの種類
type EventType string

const (
	EventFestival EventType = "festival"
	EventWeekend  EventType = "weekend"
	EventHoliday  EventType = "holiday"
	EventNone     EventType = "none"
)

// ProductStatus 消費期限ステータス（daysToExpiryから導出）
type ProductStatus string

const (
	StatusFresh    ProductStatus = "fresh"    // 6日以上
	StatusExpiring ProductStatus = "expiring" // 3〜5日
	StatusUrgent   ProductStatus = "urgent"   // 2日以下
)

// Urgency 推奨アクションの緊急度
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// UrgencyRank ソート用の緊急度ランク（high=3, medium=2, low=1）
func UrgencyRank(u Urgency) int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	}
	return 0
}

// RecommendationType 推奨アクションの種類
type RecommendationType string

const (
	RecommendationPricing   RecommendationType = "pricing"
	RecommendationTransfer  RecommendationType = "transfer"
	RecommendationPromotion RecommendationType = "promotion"
	RecommendationRestock   RecommendationType = "restock"
	RecommendationMarkdown  RecommendationType = "markdown"
)

// ProductCategories 取り扱いカテゴリ一覧
var ProductCategories = []string{"produce", "bakery", "dairy", "deli", "seafood"}

// Product 商品1件分のカタログ情報
type Product struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Category              string        `json:"category"`
	InventoryCount        int           `json:"inventoryCount"`
	ExpiryDate            string        `json:"expiryDate"` // YYYY-MM-DD
	BasePrice             float64       `json:"basePrice"`  // 基準価格（作成後は不変）
	CurrentPrice          float64       `json:"currentPrice"`
	SalesVelocity         float64       `json:"salesVelocity"` // 1日あたりの販売率の目安（0〜1）
	CompetitorPrice       float64       `json:"competitorPrice"`
	DaysToExpiry          int           `json:"daysToExpiry"` // 期限切れの場合は負値もあり得る
	DemandScore           float64       `json:"demandScore"`  // 0〜1
	PriceChangePercentage float64       `json:"priceChangePercentage"`
	Status                ProductStatus `json:"status"`
}

// DeriveStatus daysToExpiryからステータスを導出する純関数。
// 保存済みのstatusは参照せず、読み出し時に常に再計算する。
func DeriveStatus(daysToExpiry int) ProductStatus {
	switch {
	case daysToExpiry <= 2:
		return StatusUrgent
	case daysToExpiry <= 5:
		return StatusExpiring
	default:
		return StatusFresh
	}
}

// WeatherData 気象スナップショット
type WeatherData struct {
	Condition   WeatherCondition `json:"condition"`
	Temperature int              `json:"temperature"`
	Impact      float64          `json:"impact"` // >1で需要押し上げ、<1で需要押し下げ
}

// LocalEvent ローカルイベントのスナップショット
type LocalEvent struct {
	Name   string    `json:"name"`
	Type   EventType `json:"type"`
	Impact float64   `json:"impact"`
}

// PriceQuote 動的価格計算の結果
type PriceQuote struct {
	NewPrice              float64  `json:"newPrice"`
	PriceChangePercentage float64  `json:"priceChangePercentage"`
	Reasoning             []string `json:"reasoning"`
}

// AIRecommendation ルールベースで生成される推奨アクション
type AIRecommendation struct {
	ID              string             `json:"id"`
	Type            RecommendationType `json:"type"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Impact          string             `json:"impact"` // 金額効果の目安（表示用テキスト）
	Urgency         Urgency            `json:"urgency"`
	Confidence      int                `json:"confidence"` // 0〜100
	ProductIDs      []string           `json:"productIds,omitempty"`
	SuggestedAction string             `json:"suggestedAction,omitempty"`
}

// Store 店舗と在庫
type Store struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Products []Product `json:"products"`
}

// TransferRecommendation 店舗間の在庫移動の推奨
type TransferRecommendation struct {
	ID        string  `json:"id"`
	FromStore string  `json:"fromStore"`
	ToStore   string  `json:"toStore"`
	Product   string  `json:"product"`
	Quantity  int     `json:"quantity"`
	Reason    string  `json:"reason"`
	Urgency   Urgency `json:"urgency"`
}

// SustainabilityMetrics ダッシュボード向けの累積メトリクス
type SustainabilityMetrics struct {
	WasteReduced         float64 `json:"wasteReduced"`      // 廃棄削減率（上限25%）
	ProfitImprovement    float64 `json:"profitImprovement"` // 利益改善率（上限20%）
	CO2Saved             int     `json:"co2Saved"`
	FlashDealConversions int     `json:"flashDealConversions"`
	TotalItemsOptimized  int     `json:"totalItemsOptimized"`
}

// CreateProductRequest 商品登録リクエスト。数値の妥当性はこの入力境界で検証する。
type CreateProductRequest struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category" binding:"required,oneof=produce bakery dairy deli seafood"`
	InventoryCount  int     `json:"inventoryCount" binding:"min=0"`
	ExpiryDate      string  `json:"expiryDate" binding:"required"` // YYYY-MM-DD
	BasePrice       float64 `json:"basePrice" binding:"required,gt=0"`
	SalesVelocity   float64 `json:"salesVelocity" binding:"min=0,max=1"`
	CompetitorPrice float64 `json:"competitorPrice" binding:"min=0"`
}

// UpdateProductRequest 商品更新リクエスト。nil/空のフィールドは変更しない。
type UpdateProductRequest struct {
	Name            string   `json:"name,omitempty"`
	InventoryCount  *int     `json:"inventoryCount,omitempty"`
	ExpiryDate      string   `json:"expiryDate,omitempty"`
	SalesVelocity   *float64 `json:"salesVelocity,omitempty"`
	CompetitorPrice *float64 `json:"competitorPrice,omitempty"`
}

// PricingPreviewRequest 単品の価格プレビューリクエスト
type PricingPreviewRequest struct {
	Product Product      `json:"product" binding:"required"`
	Weather *WeatherData `json:"weather,omitempty"`
	Event   *LocalEvent  `json:"event,omitempty"`
}

// DaysUntil 期限日（YYYY-MM-DD）から残日数を計算する
func DaysUntil(expiryDate string, now time.Time) (int, error) {
	t, err := time.Parse("2006-01-02", expiryDate)
	if err != nil {
		return 0, err
	}
	days := int(t.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
	return days, nil
}
