package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	saleapp "github.com/retailpos/backend/internal/application/sale"
	tradeapp "github.com/retailpos/backend/internal/application/trade"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting point-of-sale server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Run schema migrations
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Product lookup cache. Redis when enabled, with an in-process
	// fallback so the register keeps working without it.
	var productCache catalogapp.ProductLookupCache
	if cfg.Sale.LookupCacheEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, using in-memory product cache", zap.Error(err))
			productCache = cache.NewInMemoryProductCache(cfg.Sale.LookupCacheTTL)
		} else {
			productCache = cache.NewRedisProductCache(redisClient, cfg.Sale.LookupCacheTTL, log)
			log.Info("Redis product cache connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		productCache = cache.NewInMemoryProductCache(cfg.Sale.LookupCacheTTL)
	}

	// Products without a rate of their own fall back to the configured
	// flat tax rate
	catalog.DefaultTaxRate = decimal.NewFromFloat(cfg.Sale.DefaultTaxRate)

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockUnitRepo := persistence.NewGormStockUnitRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB, cfg.Sale.InvoicePrefix)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB, cfg.Sale.PurchasePrefix)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, productCache, log)
	stockService := inventoryapp.NewStockService(stockUnitRepo, log)
	saleService := saleapp.NewSaleService(saleRepo, stockUnitRepo, productRepo, log)
	exchangeService := saleapp.NewExchangeService(saleRepo, stockUnitRepo, productRepo, log)
	receivingService := tradeapp.NewReceivingService(purchaseOrderRepo, stockUnitRepo, productRepo, log)

	// Initialize HTTP handlers
	saleHandler := handler.NewSaleHandler(saleService, exchangeService)
	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(stockService)
	purchaseHandler := handler.NewPurchaseHandler(receivingService)

	// Setup router
	engine := router.NewEngine(log, middleware.DefaultCORSConfig())
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.NewRouter(engine).
		Register(saleHandler).
		Register(productHandler).
		Register(stockHandler).
		Register(purchaseHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
