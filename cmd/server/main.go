package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"prediction-arena/internal/blockchain"
	"prediction-arena/internal/config"
	"prediction-arena/internal/database"
	"prediction-arena/internal/handlers"
	"prediction-arena/internal/jobs"
	"prediction-arena/internal/middleware"
	"prediction-arena/internal/pricefeed"
	"prediction-arena/internal/services"
)

const version = "1.0.0"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Optional shared store for rate limiting and the price cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis shared store enabled")
	}

	cacheTTL := time.Duration(cfg.App.CacheTTLSeconds) * time.Second
	var priceCache pricefeed.Cache = pricefeed.NewMemoryCache(cacheTTL)
	var windowStore middleware.WindowStore = middleware.NewMemoryWindowStore()
	if redisClient != nil {
		priceCache = pricefeed.NewRedisCache(redisClient, cacheTTL)
		windowStore = middleware.NewRedisWindowStore(redisClient)
	}

	// Demo market seeds and settlement rules
	seeds, err := config.LoadMarketSeeds(cfg.App.MarketsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load market seeds")
	}

	// Initialize services
	priceService := pricefeed.NewService(priceCache)
	forecastService := services.NewForecastService()
	narrativeService := services.NewNarrativeService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	ledger := blockchain.NewLedgerRecorder(
		cfg.Chain.RPCURL,
		cfg.Chain.ContractAddress,
		cfg.Chain.PrivateKey,
		cfg.Chain.ChainID,
	)
	ruleRegistry := services.NewRuleRegistry()
	marketService := services.NewMarketService(database.GetDB(), priceService, ruleRegistry, seeds)
	leaderboardService := services.NewLeaderboardService(database.GetDB())
	userService := services.NewUserService(database.GetDB())

	// Initialize handlers
	handlers.RegisterValidators()
	priceHandler := handlers.NewPriceHandler(priceService)
	predictHandler := handlers.NewPredictHandler(priceService, forecastService, narrativeService, ledger)
	marketHandler := handlers.NewMarketHandler(marketService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	chatHandler := handlers.NewChatHandler(narrativeService)
	userHandler := handlers.NewUserHandler(userService)

	// Start the market closer job
	closerJob := jobs.NewMarketCloserJob(marketService)
	if err := closerJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start market closer job")
	}

	// Set up Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.App.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Edge middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(windowStore, cfg.RateLimit.RequestsPerMinute))
	router.Use(middleware.Metrics())

	// Service banner
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "AI-vs-Human Prediction Arena API",
			"version": version,
		})
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Prometheus exposition
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/price", priceHandler.GetPrice)
		api.GET("/price/stream", priceHandler.StreamPrice)
		api.POST("/predict", predictHandler.Predict)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.POST("/chat", chatHandler.Chat)

		api.GET("/markets", marketHandler.GetMarkets)
		api.GET("/markets/:id", marketHandler.GetMarketByID)
		api.POST("/markets/:id/bets", marketHandler.PlaceBet)
		api.POST("/markets/:id/resolve", marketHandler.ResolveMarket)
		api.GET("/users/:address/bets", marketHandler.GetUserBets)

		if cfg.App.EnableUserRegistration {
			api.POST("/users/register", userHandler.Register)
			api.GET("/users/:address", userHandler.GetUser)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	closerJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
