package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"proprental/internal/caching"
	"proprental/internal/config"
	"proprental/internal/handlers"
	"proprental/internal/jobs/background"
	"proprental/internal/middleware"
	"proprental/internal/repositories"
	"proprental/internal/services"
	"proprental/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret")
	}
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	productRepo := repositories.NewProductRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)

	// Image pipeline
	imageStore, err := services.NewDiskImageStore(cfg.ImageDir, cfg.PublicURL)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}
	segmenter := services.NewPhotoroomSegmenter(cfg.SegmentAPIURL, cfg.SegmentAPIKey)
	rembg := services.NewBackgroundProcessor(imageStore, segmenter, cfg.ImageDir, cfg.PublicURL)

	// Services
	productSvc := services.NewProductService(productRepo, categoryRepo, minioSvc, cacheSvc)
	categorySvc := services.NewCategoryService(categoryRepo, productRepo, cacheSvc)
	ingestSvc := services.NewIngestService(productRepo, categoryRepo, imageStore, rembg, cacheSvc)
	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.QuoteFrom, cfg.QuoteTo)
	quoteSvc := services.NewQuoteService(mailer)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(cfg.AdminUsername, cfg.AdminPassword, jwtSecret)
	productHandlers := handlers.NewProductHandlers(productSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc)
	uploadHandlers := handlers.NewUploadHandlers(ingestSvc, cfg.UploadDir)
	quoteHandlers := handlers.NewQuoteHandlers(quoteSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	scheduler, err := background.NewJobScheduler(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Cached product images are served as static assets
	e.Static(cfg.PublicURL, cfg.ImageDir)

	e.GET("/health", healthHandlers.HealthCheck)

	// Public storefront endpoints
	e.GET("/products", productHandlers.ListProducts)
	e.GET("/products/:id", productHandlers.GetProduct)
	e.GET("/categories", categoryHandlers.ListCategories)
	e.GET("/categories/:id", categoryHandlers.GetCategory)
	e.POST("/quote-requests", quoteHandlers.SubmitQuoteRequest)

	e.POST("/admin/login", authHandlers.Login)
	e.POST("/admin/logout", authHandlers.Logout)

	// Admin endpoints behind the session cookie
	admin := e.Group("/admin", middleware.AdminJWT(jwtSecret))
	admin.POST("/products", productHandlers.CreateProduct)
	admin.PUT("/products/:id", productHandlers.UpdateProduct)
	admin.DELETE("/products/:id", productHandlers.DeleteProduct)
	admin.DELETE("/products", productHandlers.DeleteAllProducts)
	admin.POST("/products/upload", uploadHandlers.UploadProducts)
	admin.GET("/products/export", productHandlers.ExportProducts)
	admin.GET("/products/template", productHandlers.DownloadTemplate)
	admin.POST("/products/:id/images", productHandlers.UploadProductPhoto)
	admin.POST("/categories", categoryHandlers.CreateCategory)
	admin.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandlers.DeleteCategory)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
