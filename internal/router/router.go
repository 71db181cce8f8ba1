package router

import (
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/config"
	"github.com/haroldrospa/Cobroapp-sub000/internal/handler"
	"github.com/haroldrospa/Cobroapp-sub000/internal/middleware"
	"github.com/haroldrospa/Cobroapp-sub000/internal/repository"
	"github.com/haroldrospa/Cobroapp-sub000/internal/service"
	"github.com/haroldrospa/Cobroapp-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	operatorRepo := repository.NewOperatorRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(operatorRepo, cfg)
	sessionSvc := service.NewSessionService(sessionRepo, movementRepo, saleRepo, dispatcher)
	movementSvc := service.NewMovementService(movementRepo, sessionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	operatorsH := handler.NewOperatorsHandler(authSvc)
	drawerH := handler.NewDrawerHandler(sessionSvc, movementSvc)

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
		// Roles: cashier, supervisor, admin — declared per-endpoint
		drawer := v1.Group("/drawer")
		{
			drawer.POST("/open", middleware.RequireRole("cashier", "supervisor", "admin"), drawerH.Open)
			drawer.POST("/close", middleware.RequireRole("cashier", "supervisor", "admin"), drawerH.Close)
			drawer.GET("/active", middleware.RequireRole("cashier", "supervisor", "admin"), drawerH.GetActive)
			drawer.GET("/:id/report", middleware.RequireRole("cashier", "supervisor", "admin"), drawerH.Report)
			drawer.POST("/movement", middleware.RequireRole("cashier", "supervisor", "admin"), drawerH.RecordMovement)
			drawer.GET("/movements", middleware.RequireRole("cashier", "supervisor", "admin"), drawerH.ListMovements)
			drawer.GET("/history", middleware.RequireRole("supervisor", "admin"), drawerH.History)
		}

		operators := v1.Group("/operators", middleware.RequireRole("admin"))
		{
			operators.POST("", operatorsH.Create)
			operators.GET("", operatorsH.List)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
