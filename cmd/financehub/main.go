package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"financehub/internal/api"
	"financehub/internal/api/handlers"
	"financehub/internal/repository"
	"financehub/internal/service"
	"financehub/internal/worker"
	"financehub/pkg/auth"
	"financehub/pkg/config"
	"financehub/pkg/logger"
	"financehub/pkg/postgres"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @title FinanceHub API
// @version 1.0
// @description Personal finance tracking service: transactions, catalogs and monthly dashboards.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting FinanceHub service")

	// Amounts serialize as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	// Apply migrations before opening the pool
	if err := postgres.RunMigrations(&cfg.Database); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	methodRepo := repository.NewPaymentMethodRepository(db, appLogger)
	goalRepo := repository.NewSavingGoalRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	txService := service.NewTransactionService(txRepo, categoryRepo, methodRepo, goalRepo, appLogger)
	categoryService := service.NewCategoryService(categoryRepo, appLogger)
	methodService := service.NewPaymentMethodService(methodRepo, appLogger)
	goalService := service.NewSavingGoalService(goalRepo, appLogger)
	reportService := service.NewReportService(txRepo, goalRepo, &cfg.Report, appLogger)

	// Background worker
	if cfg.Worker.Enabled {
		dueWorker, err := worker.NewDueResetWorker(cfg.Worker.DueResetCron, txRepo, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize due reset worker", zap.Error(err))
		}
		dueWorker.Start()
		defer dueWorker.Stop()
	}

	// Setup router
	app := api.SetupRouter(api.Handlers{
		Auth:          handlers.NewAuthHandler(authService, appLogger),
		Transaction:   handlers.NewTransactionHandler(txService, appLogger),
		Category:      handlers.NewCategoryHandler(categoryService, appLogger),
		PaymentMethod: handlers.NewPaymentMethodHandler(methodService, appLogger),
		SavingGoal:    handlers.NewSavingGoalHandler(goalService, appLogger),
		Dashboard:     handlers.NewDashboardHandler(reportService, appLogger),
	}, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
