package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/api/handlers"
	"github.com/stitts-dev/prop-edge/internal/bets"
	"github.com/stitts-dev/prop-edge/internal/cache"
	"github.com/stitts-dev/prop-edge/internal/config"
	"github.com/stitts-dev/prop-edge/internal/edge"
	"github.com/stitts-dev/prop-edge/internal/history"
	"github.com/stitts-dev/prop-edge/internal/logger"
	"github.com/stitts-dev/prop-edge/internal/services"
	"github.com/stitts-dev/prop-edge/internal/statsource"
	"github.com/stitts-dev/prop-edge/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting prop-edge service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := storage.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Stats pipeline: upstream client behind a circuit breaker, Redis-backed
	// TTL cache with stale fallback on upstream failure.
	source := statsource.NewHTTPClient(
		cfg.StatsAPIBaseURL,
		cfg.StatsAPIKey,
		cfg.StatsAPITimeout,
		cfg.BreakerMaxRequests,
		log,
	)
	statCache := cache.New(
		cache.NewRedisStore(redisClient, cfg.CacheMaxRetention, log),
		cfg.CacheMaxRetention,
		log,
	)

	engine := edge.NewEngine(edge.Config{
		MinObservations: cfg.MinObservations,
		Window:          cfg.RollingWindow,
	})

	historyStore := storage.NewHistoryStore(db)
	lineTracker := history.NewTracker(historyStore, historyStore, log)
	betTracker := bets.NewTracker(storage.NewBetStore(db), log)

	evaluator := services.NewEvaluator(statCache, source, engine, lineTracker, log, services.EvaluatorConfig{
		CacheTTL:      cfg.CacheTTL,
		LookbackGames: cfg.LookbackGames,
		EdgeThreshold: cfg.EdgeThreshold,
		MinStreak:     cfg.MinStreak,
		DefaultOdds:   cfg.DefaultOdds,
	})

	refresher := services.NewRefresher(evaluator, lineTracker, statCache, cfg.RefreshSchedule, log)
	if err := refresher.Start(); err != nil {
		log.Fatalf("Failed to start board refresher: %v", err)
	}
	defer refresher.Stop()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	edgeHandler := handlers.NewEdgeHandler(evaluator, log)
	lineHandler := handlers.NewLineHandler(lineTracker, log)
	parlayHandler := handlers.NewParlayHandler(evaluator, cfg.DefaultOdds, log)
	betHandler := handlers.NewBetHandler(betTracker, log)
	healthHandler := handlers.NewHealthHandler(db, redisClient, refresher, log)

	apiV1 := router.Group("/api/v1")
	{
		// Edge board
		apiV1.GET("/edges", edgeHandler.GetBoard)
		apiV1.GET("/edges/prop", edgeHandler.GetProp)
		apiV1.GET("/stats/categories", edgeHandler.GetStatCategories)

		// Lines, movement history, chase list, alt lines
		apiV1.POST("/lines", lineHandler.RecordLine)
		apiV1.PUT("/lines", lineHandler.EditLine)
		apiV1.GET("/lines", lineHandler.ListLines)
		apiV1.GET("/lines/changes", lineHandler.GetChanges)
		apiV1.POST("/lines/chase", lineHandler.AddChase)
		apiV1.DELETE("/lines/chase", lineHandler.RemoveChase)
		apiV1.GET("/lines/chase", lineHandler.ListChase)
		apiV1.POST("/lines/alt", lineHandler.AddAltLine)
		apiV1.GET("/lines/alt", lineHandler.ListAltLines)

		// Parlays
		apiV1.POST("/parlay/calculate", parlayHandler.Calculate)
		apiV1.GET("/parlay/recommendations", parlayHandler.Recommendations)

		// Bet tracking
		apiV1.POST("/bets", betHandler.Place)
		apiV1.GET("/bets", betHandler.List)
		apiV1.GET("/bets/pending", betHandler.Pending)
		apiV1.GET("/bets/summary", betHandler.Summary)
		apiV1.POST("/bets/:id/settle", betHandler.Settle)
		apiV1.PUT("/bets/:id/closing-odds", betHandler.UpdateClosingOdds)
		apiV1.DELETE("/bets/:id", betHandler.Delete)

		// Manual refresh trigger for ad-hoc slate updates
		apiV1.POST("/refresh", func(c *gin.Context) {
			if err := refresher.RunOnce(c.Request.Context()); err != nil {
				log.WithError(err).Error("Manual refresh failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"refreshed": true})
		})
	}

	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.HEAD("/ready", healthHandler.GetReady)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Prop edge service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down prop edge service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Prop edge service forced to shutdown: %v", err)
	}

	log.Info("Prop edge service exited")
}
