package services

import (
	"fmt"
	"math"

	"fresh-retail-api/pkg/models"

	"github.com/montanaflynn/stats"
)

// PricingService 動的価格エンジン。状態を持たず、入力スナップショットに対して純粋に計算する。
type PricingService struct{}

// NewPricingService 新しい動的価格エンジンを作成
func NewPricingService() *PricingService {
	return &PricingService{}
}

// 価格倍率の下限・上限。newPriceは常に[0.8, 1.5]×basePriceに収まる。
const (
	minPriceMultiplier = 0.8
	maxPriceMultiplier = 1.5
)

// CalculateDemandScore 商品の需要スコア（0〜1）を計算する。
// 基準は販売velocityで、気象・イベントの影響係数を乗算し、
// カテゴリと天気の相性ボーナスを加えたうえで0〜1にクランプする。
// historicalSalesが非空の場合は、系列平均（各値を0〜1にクランプ）と
// salesVelocityを50:50でブレンドした値を基準にする。
func (ps *PricingService) CalculateDemandScore(product models.Product, weather models.WeatherData, event models.LocalEvent, historicalSales []float64) float64 {
	base := product.SalesVelocity

	if len(historicalSales) > 0 {
		clamped := make([]float64, len(historicalSales))
		for i, v := range historicalSales {
			clamped[i] = clamp(v, 0, 1)
		}
		if mean, err := stats.Mean(clamped); err == nil {
			base = (base + mean) / 2
		}
	}

	demandScore := base
	demandScore *= weather.Impact
	demandScore *= event.Impact

	// カテゴリ別の天気ボーナス
	if weather.Condition == models.WeatherSunny && product.Category == "produce" {
		demandScore *= 1.15 // 晴天は生鮮の需要増
	}
	if weather.Condition == models.WeatherRainy && product.Category == "bakery" {
		demandScore *= 1.1 // 雨天はベーカリーの需要増
	}

	return clamp(demandScore, 0, 1)
}

// CalculateDynamicPrice 1商品分の動的価格を計算する。
// 各調整項は倍率1.0に対して加算・減算され、要因ごとにreasoningへ記録される。
func (ps *PricingService) CalculateDynamicPrice(product models.Product, weather models.WeatherData, event models.LocalEvent) models.PriceQuote {
	reasoning := []string{}
	multiplier := 1.0

	demandScore := ps.CalculateDemandScore(product, weather, event, nil)

	// 期限切迫ディスカウント
	urgencyDiscount := math.Max(0, float64(5-product.DaysToExpiry)*0.08)
	if urgencyDiscount > 0 {
		multiplier -= urgencyDiscount
		reasoning = append(reasoning, fmt.Sprintf("%.1f%% discount due to expiry urgency", urgencyDiscount*100))
	}

	// 過剰在庫プレッシャー
	inventoryPressure := math.Max(0, float64(product.InventoryCount-50)*0.002)
	if inventoryPressure > 0 {
		multiplier -= inventoryPressure
		reasoning = append(reasoning, fmt.Sprintf("%.1f%% discount due to high inventory", inventoryPressure*100))
	}

	// 競合価格との乖離
	competitorFactor := (product.CompetitorPrice - product.BasePrice) / product.BasePrice * 0.3
	multiplier += competitorFactor
	if competitorFactor != 0 {
		reasoning = append(reasoning, fmt.Sprintf("%+.1f%% adjustment based on competitor pricing", competitorFactor*100))
	}

	// 需要スコアによる調整
	demandAdjustment := (demandScore - 0.5) * 0.15
	multiplier += demandAdjustment
	if demandAdjustment > 0 {
		reasoning = append(reasoning, fmt.Sprintf("+%.1f%% increase due to high demand", demandAdjustment*100))
	} else if demandAdjustment < 0 {
		reasoning = append(reasoning, fmt.Sprintf("%.1f%% decrease due to low demand", demandAdjustment*100))
	}

	// 気象影響
	if weather.Impact != 1.0 {
		weatherAdjustment := (weather.Impact - 1.0) * 0.1
		multiplier += weatherAdjustment
		reasoning = append(reasoning, fmt.Sprintf("%+.1f%% due to %s weather", weatherAdjustment*100, weather.Condition))
	}

	// イベント影響
	if event.Impact != 1.0 {
		eventAdjustment := (event.Impact - 1.0) * 0.1
		multiplier += eventAdjustment
		reasoning = append(reasoning, fmt.Sprintf("%+.1f%% due to %s", eventAdjustment*100, event.Name))
	}

	multiplier = clamp(multiplier, minPriceMultiplier, maxPriceMultiplier)

	newPrice := round2(product.BasePrice * multiplier)
	priceChangePercentage := round1((newPrice - product.BasePrice) / product.BasePrice * 100)

	return models.PriceQuote{
		NewPrice:              newPrice,
		PriceChangePercentage: priceChangePercentage,
		Reasoning:             reasoning,
	}
}

// round2 小数第2位への四捨五入（価格用）
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 小数第1位への四捨五入（変化率用）
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
