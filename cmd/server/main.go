package main

import (
	"fmt"
	"log"
	"net/http"

	config "fresh-retail-api/configs"
	"fresh-retail-api/pkg/handlers"
	"fresh-retail-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// Ginルーターの初期化
	r := gin.Default()

	// サービスの初期化
	monitoringService := services.NewMonitoringService()
	pricingService := services.NewPricingService()
	recommendationService := services.NewRecommendationService()
	simulationService := services.NewSimulationService(nil)
	storeService := services.NewStoreService(pricingService, recommendationService, nil)

	// 初期カタログと環境の投入
	storeService.Seed(simulationService.GenerateProducts(cfg.SeedProductCount))
	storeService.Refresh(simulationService.GenerateWeather(), simulationService.GenerateLocalEvent())

	// ハンドラーの初期化
	productHandler := handlers.NewProductHandler(storeService, simulationService)
	pricingHandler := handlers.NewPricingHandler(storeService)
	recommendationHandler := handlers.NewRecommendationHandler(storeService, recommendationService, simulationService)
	environmentHandler := handlers.NewEnvironmentHandler(storeService, simulationService)
	dashboardHandler := handlers.NewDashboardHandler(storeService, monitoringService)
	reportHandler := handlers.NewReportHandler(storeService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware()) // ロギングミドルウェアをグローバルに適用
	r.Use(cors.Default())

	// 認証ミドルウェア
	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// ヘルスチェックエンドポイント
	r.GET("/health", handlers.HealthCheck)

	// APIバージョン1のルートグループ
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// 商品カタログAPI
		products := v1.Group("/products")
		{
			products.GET("", productHandler.ListProducts)
			products.POST("", productHandler.CreateProduct)
			products.PATCH("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.POST("/seed", productHandler.SeedProducts)
		}

		// 動的価格API
		pricing := v1.Group("/pricing")
		{
			pricing.POST("/preview", pricingHandler.PreviewPrice)
			pricing.POST("/apply", pricingHandler.ApplyPricing)
			pricing.GET("/flash-deals", pricingHandler.GetFlashDeals)
		}

		// 推奨アクションAPI
		recommendations := v1.Group("/recommendations")
		{
			recommendations.GET("", recommendationHandler.ListRecommendations)
			recommendations.POST("/:id/accept", recommendationHandler.AcceptRecommendation)
			recommendations.POST("/:id/dismiss", recommendationHandler.DismissRecommendation)
			recommendations.GET("/transfers", recommendationHandler.GetTransferRecommendations)
		}

		// 環境スナップショットAPI
		environment := v1.Group("/environment")
		{
			environment.GET("", environmentHandler.GetEnvironment)
			environment.POST("/refresh", environmentHandler.RefreshEnvironment)
		}

		// ダッシュボードAPI
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/metrics", dashboardHandler.GetMetrics)
			dashboard.GET("/monitoring", dashboardHandler.GetMonitoringSummary)
		}

		// レポートAPI
		reports := v1.Group("/reports")
		{
			reports.GET("/catalog.xlsx", reportHandler.ExportCatalog)
			reports.POST("/import", reportHandler.ImportCatalog)
		}
	}

	// 定期リフレッシュ：環境を合成し直し、推奨とメトリクスを更新する
	scheduler := cron.New(cron.WithSeconds())
	schedule := fmt.Sprintf("@every %ds", cfg.RefreshIntervalSeconds)
	if _, err := scheduler.AddFunc(schedule, func() {
		storeService.Refresh(simulationService.GenerateWeather(), simulationService.GenerateLocalEvent())
		log.Printf("environment refreshed (interval: %ds)", cfg.RefreshIntervalSeconds)
	}); err != nil {
		log.Fatal("Failed to schedule environment refresh:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("Starting Fresh Retail API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
