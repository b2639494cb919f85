package router

import (
	"time"

	"luminapos/internal/config"
	"luminapos/internal/handler"
	"luminapos/internal/middleware"
	"luminapos/internal/repository"
	"luminapos/internal/service"
	"luminapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, service.InventoryService, *worker.Dispatcher) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	stockMoveRepo := repository.NewStockMovementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo)
	inventorySvc := service.NewInventoryService(productRepo, stockMoveRepo)
	shiftSvc := service.NewShiftService(shiftRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, rdb, cfg)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	settlementSvc := service.NewSettlementService(
		txnRepo, shiftSvc, shiftRepo, productRepo, settingsSvc, inventorySvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	checkoutH := handler.NewCheckoutHandler(settlementSvc)
	shiftH := handler.NewShiftHandler(shiftSvc)
	txnsH := handler.NewTransactionsHandler(settlementSvc)
	ordersH := handler.NewOrdersHandler(settlementSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, supervisor, admin — declared per endpoint
		anyStaff := middleware.RequireRole("cashier", "supervisor", "admin")
		managers := middleware.RequireRole("supervisor", "admin")

		v1.POST("/checkout", anyStaff, checkoutH.Settle)
		v1.GET("/transactions", anyStaff, txnsH.List)
		v1.GET("/orders/pending", anyStaff, ordersH.ListPending)

		shifts := v1.Group("/shifts")
		{
			shifts.POST("/open", anyStaff, shiftH.Open)
			shifts.POST("/movements", anyStaff, shiftH.RecordMovement)
			shifts.POST("/close", anyStaff, shiftH.Close)
			shifts.GET("/current", anyStaff, shiftH.Current)
			shifts.GET("/:id/report", managers, shiftH.Report)
		}

		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/:id", anyStaff, productsH.Get)

		v1.GET("/settings", anyStaff, settingsH.Get)
		v1.PUT("/settings", middleware.RequireRole("admin"), settingsH.Update)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, inventorySvc, dispatcher
}
