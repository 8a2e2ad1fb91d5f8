package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-budget/internal/config"
	"smart-budget/internal/database"
	"smart-budget/internal/handlers"
	custommiddleware "smart-budget/internal/middleware"
	"smart-budget/internal/repositories"
	"smart-budget/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	// Repositories
	transactionStore := repositories.NewTransactionStore(db)
	patternRepo := repositories.NewPatternRepository(db)

	// Services
	metrics := services.NewPrometheusMetrics()
	detectionLogger := services.NewDetectionLogger(logger)
	grouper := services.NewTransactionGrouper(cfg.Detection.WordOverlapThreshold)
	classifier := services.NewPeriodicityClassifier()
	analyzer := services.NewSpendingAnalyzer()
	detectionService := services.NewPatternDetectionService(transactionStore, patternRepo, grouper, classifier, detectionLogger, metrics)
	approvalService := services.NewPatternApprovalService(patternRepo, detectionLogger, metrics)
	orchestrator := services.NewBudgetOrchestrator(transactionStore, patternRepo, detectionService, approvalService, analyzer, grouper, detectionLogger, metrics)

	// Handlers
	healthHandler := handlers.NewHealthCheckHandler(db)
	patternHandler := handlers.NewPatternHandler(detectionService, approvalService)
	budgetHandler := handlers.NewBudgetHandler(orchestrator, analyzer)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = custommiddleware.CustomHTTPErrorHandler

	e.Use(custommiddleware.RequestID())
	e.Use(custommiddleware.PanicRecovery())
	e.Use(custommiddleware.SecurityHeaders())
	e.Use(custommiddleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
	}))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	patterns := api.Group("/patterns")
	patterns.POST("/detect", patternHandler.DetectPatterns)
	patterns.GET("/pending", patternHandler.GetPendingPatterns)
	patterns.POST("/:patternId/approve", patternHandler.ApprovePattern)
	patterns.POST("/:patternId/reject", patternHandler.RejectPattern)
	patterns.POST("/decisions", patternHandler.BulkDecide)

	budget := api.Group("/budget")
	budget.POST("/workflow", budgetHandler.ExecuteWorkflow)
	budget.POST("/calculate-with-rejection", budgetHandler.CalculateWithRejection)
	budget.GET("/averaging-strategy", budgetHandler.GetAveragingStrategy)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			slog.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("Server started", "addr", server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
