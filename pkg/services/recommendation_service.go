package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"fresh-retail-api/pkg/models"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// RecommendationService ルールベースの推奨アクション生成サービス。
// 出力は入力のみから決まる（ランダム要素なし）。
type RecommendationService struct{}

// NewRecommendationService 新しい推奨サービスを作成
func NewRecommendationService() *RecommendationService {
	return &RecommendationService{}
}

// maxRecommendations 一度に返す推奨アクションの上限
const maxRecommendations = 5

// GenerateAIRecommendations 商品一覧を走査して推奨アクションを生成する。
// 緊急度（降順）→信頼度（降順）で安定ソートし、上位5件のみ返す。
func (rs *RecommendationService) GenerateAIRecommendations(products []models.Product) []models.AIRecommendation {
	recommendations := []models.AIRecommendation{}

	// 商品単位のルール
	for _, product := range products {
		// 過剰在庫 + 低velocity → 値下げ候補
		if product.InventoryCount > 80 && product.SalesVelocity < 0.15 {
			recommendations = append(recommendations, models.AIRecommendation{
				ID:    fmt.Sprintf("markdown-%s", product.ID),
				Type:  models.RecommendationMarkdown,
				Title: "Markdown Opportunity",
				Description: fmt.Sprintf("%s has high inventory (%d units) with low sales velocity. Consider a 15-20%% markdown to accelerate sales.",
					product.Name, product.InventoryCount),
				Impact:          fmt.Sprintf("Est. $%d revenue recovery", int(math.Round(product.CurrentPrice*float64(product.InventoryCount)*0.15))),
				Urgency:         models.UrgencyMedium,
				Confidence:      85,
				ProductIDs:      []string{product.ID},
				SuggestedAction: "Apply 15-20% markdown",
			})
		}

		// 期限切迫 → 緊急値下げ
		if product.DaysToExpiry <= 2 && product.Status == models.StatusUrgent {
			recommendations = append(recommendations, models.AIRecommendation{
				ID:    fmt.Sprintf("urgent-%s", product.ID),
				Type:  models.RecommendationPricing,
				Title: "Urgent Price Reduction",
				Description: fmt.Sprintf("%s expires in %d days. Immediate 30-40%% discount recommended to prevent total loss.",
					product.Name, product.DaysToExpiry),
				Impact:          fmt.Sprintf("Prevent $%d loss", int(math.Round(product.CurrentPrice*float64(product.InventoryCount)))),
				Urgency:         models.UrgencyHigh,
				Confidence:      95,
				ProductIDs:      []string{product.ID},
				SuggestedAction: "Apply 30-40% discount immediately",
			})
		}

		// 在庫僅少 + 高velocity → 補充アラート
		if product.InventoryCount < 20 && product.SalesVelocity > 0.25 {
			recommendations = append(recommendations, models.AIRecommendation{
				ID:    fmt.Sprintf("restock-%s", product.ID),
				Type:  models.RecommendationRestock,
				Title: "Restock Alert",
				Description: fmt.Sprintf("%s is running low (%d units) with high demand. Restock recommended to avoid stockouts.",
					product.Name, product.InventoryCount),
				Impact:          fmt.Sprintf("Prevent lost sales of $%d", int(math.Round(product.CurrentPrice*50))),
				Urgency:         models.UrgencyHigh,
				Confidence:      90,
				ProductIDs:      []string{product.ID},
				SuggestedAction: "Order 50-100 units",
			})
		}
	}

	// カテゴリ単位のルール（出現順を保持して決定的にする）
	recommendations = append(recommendations, rs.categoryRecommendations(products)...)

	// 競合価格との乖離が大きい商品の集約ルール
	var gapIDs []string
	for _, p := range products {
		if p.CompetitorPrice > 0 && math.Abs(p.CurrentPrice-p.CompetitorPrice) > 0.5 {
			gapIDs = append(gapIDs, p.ID)
		}
	}
	if len(gapIDs) > 0 {
		recommendations = append(recommendations, models.AIRecommendation{
			ID:    "competitor-pricing",
			Type:  models.RecommendationPricing,
			Title: "Competitive Pricing Adjustment",
			Description: fmt.Sprintf("%d products have significant price gaps with competitors. Adjust pricing to maintain competitiveness.",
				len(gapIDs)),
			Impact:          "Est. 10-15% sales increase",
			Urgency:         models.UrgencyMedium,
			Confidence:      82,
			ProductIDs:      gapIDs,
			SuggestedAction: "Align with competitor pricing",
		})
	}

	// クロスセル機会
	var highPerformers, lowPerformers []models.Product
	for _, p := range products {
		if p.SalesVelocity > 0.3 {
			highPerformers = append(highPerformers, p)
		}
		if p.SalesVelocity < 0.15 {
			lowPerformers = append(lowPerformers, p)
		}
	}
	if len(highPerformers) > 0 && len(lowPerformers) > 0 {
		ids := []string{}
		for _, p := range highPerformers[:minInt(2, len(highPerformers))] {
			ids = append(ids, p.ID)
		}
		for _, p := range lowPerformers[:minInt(3, len(lowPerformers))] {
			ids = append(ids, p.ID)
		}
		recommendations = append(recommendations, models.AIRecommendation{
			ID:              "cross-sell-opportunity",
			Type:            models.RecommendationPromotion,
			Title:           "Cross-Selling Opportunity",
			Description:     "Bundle high-performing items with slower-moving inventory to boost overall sales velocity.",
			Impact:          "Est. 20% increase in slow-moving items",
			Urgency:         models.UrgencyLow,
			Confidence:      75,
			ProductIDs:      ids,
			SuggestedAction: "Create product bundles",
		})
	}

	// 緊急度 → 信頼度の順で並べ、上位のみ返す
	sort.SliceStable(recommendations, func(i, j int) bool {
		ri, rj := models.UrgencyRank(recommendations[i].Urgency), models.UrgencyRank(recommendations[j].Urgency)
		if ri != rj {
			return ri > rj
		}
		return recommendations[i].Confidence > recommendations[j].Confidence
	})

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// categoryRecommendations カテゴリ平均velocityが低い場合のプロモーション推奨
func (rs *RecommendationService) categoryRecommendations(products []models.Product) []models.AIRecommendation {
	var order []string
	grouped := make(map[string][]models.Product)
	for _, p := range products {
		if _, seen := grouped[p.Category]; !seen {
			order = append(order, p.Category)
		}
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	var result []models.AIRecommendation
	for _, category := range order {
		group := grouped[category]
		velocities := make([]float64, len(group))
		ids := make([]string, len(group))
		for i, p := range group {
			velocities[i] = p.SalesVelocity
			ids[i] = p.ID
		}
		avg, err := stats.Mean(velocities)
		if err != nil || avg >= 0.15 {
			continue
		}
		result = append(result, models.AIRecommendation{
			ID:    fmt.Sprintf("category-promo-%s", category),
			Type:  models.RecommendationPromotion,
			Title: fmt.Sprintf("%s Category Promotion", capitalize(category)),
			Description: fmt.Sprintf("%s category showing low sales velocity (%.1f%%). Bundle promotion or category discount recommended.",
				category, avg*100),
			Impact:          "Est. 25% sales increase",
			Urgency:         models.UrgencyMedium,
			Confidence:      78,
			ProductIDs:      ids,
			SuggestedAction: "Create category bundle or 10-15% discount",
		})
	}
	return result
}

// UpdateRecommendationsBasedOnActions 受諾済みIDを除外した推奨一覧を返す。
// 相対順序は保持し、入力は変更しない。
func (rs *RecommendationService) UpdateRecommendationsBasedOnActions(recommendations []models.AIRecommendation, acceptedIDs []string) []models.AIRecommendation {
	accepted := make(map[string]struct{}, len(acceptedIDs))
	for _, id := range acceptedIDs {
		accepted[id] = struct{}{}
	}

	filtered := make([]models.AIRecommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		if _, ok := accepted[rec.ID]; !ok {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// GenerateTransferRecommendations 店舗間の在庫移動候補を探す。
// 過剰在庫かつ低需要の商品を、同カテゴリで高需要の店舗へ回す。
func (rs *RecommendationService) GenerateTransferRecommendations(stores []models.Store) []models.TransferRecommendation {
	recommendations := []models.TransferRecommendation{}

	for _, store := range stores {
		for _, product := range store.Products {
			if product.InventoryCount <= 70 || product.DemandScore >= 0.4 {
				continue
			}
			for _, target := range stores {
				if target.ID == store.ID {
					continue
				}
				for _, candidate := range target.Products {
					if candidate.Category != product.Category || candidate.DemandScore <= 0.7 {
						continue
					}
					urgency := models.UrgencyMedium
					if product.DaysToExpiry <= 3 {
						urgency = models.UrgencyHigh
					}
					recommendations = append(recommendations, models.TransferRecommendation{
						ID:        fmt.Sprintf("transfer-%s", uuid.NewString()[:8]),
						FromStore: store.Name,
						ToStore:   target.Name,
						Product:   product.Name,
						Quantity:  int(float64(product.InventoryCount) * 0.3),
						Reason:    "High inventory + low demand → High demand location",
						Urgency:   urgency,
					})
					break
				}
			}
		}
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
