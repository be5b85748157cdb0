package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tavolo-pos/tavolo-api/internal/application/service"
	"github.com/tavolo-pos/tavolo-api/internal/config"
	"github.com/tavolo-pos/tavolo-api/internal/infrastructure/database"
	"github.com/tavolo-pos/tavolo-api/internal/infrastructure/repository"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/handler"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/routes"
	"github.com/tavolo-pos/tavolo-api/pkg/printer"
	"github.com/tavolo-pos/tavolo-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize structured logger
	var logger *zap.Logger
	var err error
	if cfg.App.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresConnection(&cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed the admin account and the closure period cursor
	if err := database.Seed(db); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	tableRepo := repository.NewTableRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	categoryRepo := repository.NewMenuCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	closureRepo := repository.NewClosureRepository(db)
	reportRepo := repository.NewClosureReportRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	tableService := service.NewTableService(tableRepo, orderRepo)
	menuService := service.NewMenuService(menuItemRepo, categoryRepo)
	orderService := service.NewOrderService(txManager, tableRepo, orderRepo, orderItemRepo, menuItemRepo)
	checkoutService := service.NewCheckoutService(txManager, tableRepo, orderRepo, orderItemRepo, transactionRepo)
	transactionService := service.NewTransactionService(txManager, transactionRepo, orderRepo, orderItemRepo, tableRepo)
	transferService := service.NewTransferService(txManager, tableRepo, orderRepo, orderItemRepo)
	closureService := service.NewClosureService(txManager, closureRepo, reportRepo, cfg.Ledger.TaxRate, cfg.Ledger.TopItems)
	reportService := service.NewReportService(reportRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		logger.Warn("Failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(
		thermalPrinter,
		transactionRepo,
		orderRepo,
		tableRepo,
		cfg.App.Name,
		cfg.Ledger.Currency,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Table:       handler.NewTableHandler(tableService),
		Menu:        handler.NewMenuHandler(menuService),
		Order:       handler.NewOrderHandler(orderService),
		Checkout:    handler.NewCheckoutHandler(checkoutService, printerService),
		Transfer:    handler.NewTransferHandler(transferService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Closure:     handler.NewClosureHandler(closureService, printerService),
		Report:      handler.NewReportHandler(reportService),
		User:        handler.NewUserHandler(userService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          logger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env),
	)

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
