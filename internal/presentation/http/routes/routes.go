package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tavolo-pos/tavolo-api/internal/config"
	"github.com/tavolo-pos/tavolo-api/internal/domain/entity"
	domainRepo "github.com/tavolo-pos/tavolo-api/internal/domain/repository"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/handler"
	"github.com/tavolo-pos/tavolo-api/internal/presentation/http/middleware"
	"github.com/tavolo-pos/tavolo-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Table       *handler.TableHandler
	Menu        *handler.MenuHandler
	Order       *handler.OrderHandler
	Checkout    *handler.CheckoutHandler
	Transfer    *handler.TransferHandler
	Transaction *handler.TransactionHandler
	Closure     *handler.ClosureHandler
	Report      *handler.ReportHandler
	User        *handler.UserHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.GetProfile)

	// Money-moving endpoints replay stored responses on retried keys
	idempotency := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	// Settlement-sensitive operations stay behind the manager roles
	managerOnly := middleware.RequireRole(entity.RoleAdmin, entity.RoleManager)

	registerTableRoutes(protected, h, idempotency)
	registerMenuRoutes(protected, h, managerOnly)
	registerOrderRoutes(protected, h, idempotency)
	registerFinanceRoutes(protected, h, managerOnly)
	registerClosureRoutes(protected, h, managerOnly)
	registerReportRoutes(protected, h, managerOnly)
	registerStaffRoutes(protected, h, managerOnly)
	registerPrinterRoutes(protected, h)
}

func registerTableRoutes(rg *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	tables := rg.Group("/tables")
	{
		tables.POST("", h.Table.Create)
		tables.GET("", h.Table.List)
		tables.GET("/:id", h.Table.Get)
		tables.PUT("/:id", h.Table.Update)
		tables.DELETE("/:id", h.Table.Delete)

		tables.GET("/:id/order", h.Order.GetOpenByTable)
		tables.DELETE("/:id/order", h.Order.ClearTable)
	}

	rg.POST("/transfers", idempotency, h.Transfer.Transfer)
}

func registerMenuRoutes(rg *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	menu := rg.Group("/menu")
	{
		menu.GET("/items", h.Menu.ListItems)
		menu.GET("/items/:id", h.Menu.GetItem)
		menu.GET("/categories", h.Menu.ListCategories)

		menu.POST("/items", managerOnly, h.Menu.CreateItem)
		menu.PUT("/items/:id", managerOnly, h.Menu.UpdateItem)
		menu.DELETE("/items/:id", managerOnly, h.Menu.DeleteItem)
		menu.POST("/categories", managerOnly, h.Menu.CreateCategory)
		menu.PUT("/categories/:id", managerOnly, h.Menu.UpdateCategory)
		menu.DELETE("/categories/:id", managerOnly, h.Menu.DeleteCategory)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	orders := rg.Group("/orders")
	{
		orders.POST("", idempotency, h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
	}

	rg.PUT("/order-items/:id", h.Order.UpdateItem)
	rg.POST("/checkout", idempotency, h.Checkout.Checkout)
}

func registerFinanceRoutes(rg *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)

		transactions.POST("", managerOnly, h.Transaction.Create)
		transactions.POST("/:id/reverse", managerOnly, h.Transaction.Reverse)
	}
}

func registerClosureRoutes(rg *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	closures := rg.Group("/closures")
	{
		closures.GET("/preview", h.Closure.Preview)
		closures.GET("", h.Closure.List)
		closures.GET("/:id", h.Closure.Get)

		closures.POST("", managerOnly, h.Closure.Confirm)
		closures.POST("/:id/adjustments", managerOnly, h.Closure.AddAdjustment)
	}
}

func registerReportRoutes(rg *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	reports := rg.Group("/reports", managerOnly)
	{
		reports.GET("/revenue", h.Report.Revenue)
		reports.GET("/payments", h.Report.Payments)
	}
}

func registerStaffRoutes(rg *gin.RouterGroup, h *Handlers, managerOnly gin.HandlerFunc) {
	staff := rg.Group("/staff", managerOnly)
	{
		staff.POST("", h.User.Create)
		staff.GET("", h.User.List)
		staff.GET("/:id", h.User.Get)
		staff.PUT("/:id", h.User.Update)
		staff.DELETE("/:id", h.User.Delete)
	}
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/receipts/:id", h.Printer.PrintReceipt)
	}
}
