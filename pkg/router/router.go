package router

import (
	"time"

	"mindbloom/backend/internal/api"
	"mindbloom/backend/pkg/config"
	"mindbloom/backend/pkg/di"
	"mindbloom/backend/pkg/errors"
	"mindbloom/backend/pkg/health"
	"mindbloom/backend/pkg/logger"
	"mindbloom/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Checker   *health.Checker
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container, cfg *config.Config) *Router {
	logger.SetGlobal(container.Logger)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger middleware first so every request carries a request ID
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateLimiter := middleware.NewRateLimiter(container.Logger, middleware.RateLimiterOptions{
		Limit:          rate.Limit(cfg.Security.RateLimit),
		Burst:          cfg.Security.RateLimitBurst,
		ExpiryDuration: time.Hour,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
	engine.Use(rateLimiter.Middleware())

	checker := health.NewChecker(container.Logger, 30*time.Second)
	checker.RegisterDatabaseCheck(func() error {
		sqlDB, err := container.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	checker.Start()

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Checker:   checker,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware(r.Config.Security.AllowedOrigins))

	jwtAuth := middleware.JWTAuthMiddleware(r.Container.JWTService, r.Logger)

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Logger)
	chatHandler := api.NewChatHandler(r.Container.Pipeline, r.Container.Summarizer, r.Container.ProfileService, r.Logger)
	historyHandler := api.NewHistoryHandler(r.Container.HistoryService, r.Logger)
	profileHandler := api.NewProfileHandler(r.Container.ProfileService, r.Logger)

	// Register both health endpoint paths for compatibility
	healthHandler := gin.WrapF(r.Checker.HTTPHandler())
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/v1/health", healthHandler)
	r.Engine.GET("/metrics", gin.WrapH(r.Container.Metrics.Handler()))

	v1 := r.Engine.Group("/api/v1")

	// Public routes (no auth required)
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", jwtAuth, authHandler.Me)
	}

	// The check-in link is opened from an email, so it carries its own token
	v1.GET("/feedback/confirm-checkin", profileHandler.ConfirmCheckin)

	// Protected routes (require authentication)
	protected := v1.Group("/")
	protected.Use(jwtAuth)
	{
		protected.POST("/chat", chatHandler.Chat)

		aiRoutes := protected.Group("/ai")
		{
			aiRoutes.POST("/detect-crisis", chatHandler.DetectCrisis)
			aiRoutes.POST("/summarize", chatHandler.Summarize)
			aiRoutes.GET("/starters", chatHandler.Starters)
		}

		userRoutes := protected.Group("/user")
		{
			userRoutes.GET("/chat-history", historyHandler.GetChatHistory)
			userRoutes.POST("/chat-history", historyHandler.UpdateChatHistory)
			userRoutes.GET("/summarize-history", historyHandler.SummarizeHistory)
			userRoutes.GET("/profile", profileHandler.GetProfile)
			userRoutes.POST("/profile", profileHandler.UpdateProfile)
			userRoutes.POST("/update-activity", profileHandler.UpdateActivity)
		}
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
