package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dex-sniper/internal/config"
	"github.com/dex-sniper/internal/executor"
	"github.com/dex-sniper/internal/feed"
	"github.com/dex-sniper/internal/feed/dexws"
	"github.com/dex-sniper/internal/handler"
	"github.com/dex-sniper/internal/middleware"
	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/internal/optimizer"
	"github.com/dex-sniper/internal/repository"
	"github.com/dex-sniper/internal/risk"
	"github.com/dex-sniper/internal/service"
	"github.com/dex-sniper/internal/sizing"
	"github.com/dex-sniper/internal/trader"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize file logging with rotation
	if err := middleware.InitLogger("logs"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize repositories
	operatorRepo := repository.NewOperatorRepository(db)
	ledger := repository.NewLedger(db)

	// Initialize services
	authService := service.NewAuthService(operatorRepo, cfg.JWT)

	// Initialize price feed with one stream client per network
	feedService := feed.NewService(rdb, cfg.Feed.PriceTTL, cfg.Feed.RecentCap)
	for _, network := range cfg.Feed.Networks {
		feedService.AddProvider(dexws.NewClient(network.Name, network.StreamURL))
	}

	// Initialize performance optimizer
	level, err := optimizer.ParseLevel(cfg.Optimizer.Level)
	if err != nil {
		log.Fatalf("Invalid optimizer level: %v", err)
	}
	perfOptimizer := optimizer.New(level)

	// Initialize auto-trader
	autoTrader := trader.New(cfg.Trading, trader.Deps{
		Executor:  executor.NewOrderExecutor(),
		Discovery: feedService,
		Prices:    feedService,
		Assessor:  risk.NewHeuristicAssessor(),
		Sizer:     sizing.NewRiskAdjustedSizer(),
		Ledger:    ledger,
		Outcomes:  perfOptimizer,
	})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	priceHandler := handler.NewPriceHandler(feedService)
	tradingHandler := handler.NewTradingHandler(autoTrader, ledger)
	optimizerHandler := handler.NewOptimizerHandler(perfOptimizer)

	// Create Gin router
	router := gin.Default()

	// Add request logging middleware
	router.Use(middleware.RequestLoggerMiddleware())

	// Add CORS middleware
	router.Use(corsMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
			"trader":     autoTrader.Status(),
			"networks":   feedService.NetworkStatus(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		authHandler.RegisterRoutes(v1)

		// Price routes (public)
		priceHandler.RegisterRoutes(v1)

		// Protected routes; trader mutations additionally require the
		// admin role and get full control-plane request logging
		authMiddleware := middleware.AuthMiddleware(authService)
		protected := v1.Group("")
		protected.Use(authMiddleware)
		{
			authHandler.RegisterProtectedRoutes(protected)
			tradingHandler.RegisterRoutes(protected,
				middleware.ControlLoggerMiddleware(),
				middleware.RequireAdmin(),
			)
			optimizerHandler.RegisterRoutes(protected)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start price feed
	ctx := context.Background()
	if err := feedService.Start(ctx); err != nil {
		log.Printf("Warning: Failed to start price feed: %v", err)
	}

	// Start optimizer refresh loop
	perfOptimizer.Start()

	// Start the trading loop
	if err := autoTrader.StartTrading(); err != nil {
		log.Printf("Warning: Failed to start auto-trader: %v", err)
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop the trading loop first so no new orders are placed
	autoTrader.StopTrading()

	// Stop background services
	perfOptimizer.Stop()
	feedService.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Operator{},
		&models.TradeExecution{},
		&models.ClosedPositionRecord{},
	)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
