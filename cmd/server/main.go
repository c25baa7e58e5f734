package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"time"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/api"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/auth"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/config"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/db"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/session"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/throttle"
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	gormDB, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client (sessions, throttle state, analytics cache)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Core subsystems
	sessions := session.NewManager(session.NewRedisStore(redisClient), cfg.SecureCookie || cfg.IsProd)
	loginThrottle := throttle.New(throttle.NewRedisStore(redisClient))
	users := auth.NewGormUserStore(gormDB)
	rememberTokens := auth.NewIssuer(auth.NewGormTokenStore(gormDB), users)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.Use(middleware.SecurityHeaders())

	// Per-IP request budgets: a broad one for the whole API and a
	// stricter one on the credential endpoints
	apiLimiter := middleware.NewLimiter(100, 15*time.Minute)
	authLimiter := middleware.NewLimiter(50, 15*time.Minute)
	defer apiLimiter.Stop()
	defer authLimiter.Stop()

	apiGroup := r.Group("/api")
	apiGroup.Use(
		middleware.RateLimit(apiLimiter, "Too many requests. Please try again later."),
		middleware.SessionMiddleware(sessions),
		middleware.CSRFMiddleware(),
	)

	// Public routes (session exists, no auth required)
	apiGroup.GET("/csrf-token", api.CSRFTokenHandler())
	authLimit := middleware.RateLimit(authLimiter, "Too many authentication attempts. Please try again later.")
	apiGroup.POST("/register", authLimit, api.RegisterHandler(users, sessions))
	apiGroup.POST("/login", authLimit, api.LoginHandler(users, rememberTokens, loginThrottle, sessions))
	apiGroup.POST("/auto-login", api.AutoLoginHandler(rememberTokens, sessions))
	apiGroup.POST("/logout", api.LogoutHandler(sessions))
	apiGroup.GET("/me", api.MeHandler(users))

	// Protected routes (authenticated session required)
	protected := apiGroup.Group("")
	protected.Use(middleware.RequireAuth())
	protected.GET("/card", api.GetCardHandler(gormDB))
	protected.POST("/card", api.UpdateCardHandler(gormDB))
	protected.GET("/cards", api.ListCardsHandler(gormDB))
	protected.POST("/cards", api.CreateCardHandler(gormDB, redisClient))
	protected.DELETE("/cards/:id", api.DeleteCardHandler(gormDB, redisClient))
	protected.POST("/cards/default", api.SetDefaultCardHandler(gormDB))
	protected.GET("/transactions", api.ListTransactionsHandler(gormDB))
	protected.POST("/transactions", api.CreateTransactionHandler(gormDB, redisClient))
	protected.GET("/payments", api.ListPaymentsHandler(gormDB))
	protected.POST("/payments", api.CreatePaymentHandler(gormDB))
	protected.POST("/transfer", api.TransferHandler(gormDB, redisClient))
	protected.GET("/analytics", api.AnalyticsHandler(gormDB, redisClient))
	protected.GET("/recurring", api.ListRecurringHandler(gormDB))
	protected.POST("/recurring", api.CreateRecurringHandler(gormDB))
	protected.DELETE("/recurring/:id", api.DeleteRecurringHandler(gormDB))
	protected.GET("/budgets", api.ListBudgetsHandler(gormDB))
	protected.POST("/budgets", api.SetBudgetHandler(gormDB))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
