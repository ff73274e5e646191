// Package server contains the HTTP handlers for the jobportal API.
package server

import (
	"context"
	"fmt"
	"time"

	_ "jobportal/docs" // swagger docs
	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/database"
	"jobportal/internal/featureflags"
	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/oauth"
	"jobportal/internal/repository"
	"jobportal/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultAllowedOrigins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	companyRepo    repository.CompanyRepository
	featureFlags   *featureflags.Manager
	providers      *oauth.Registry
	blacklist      *cache.TokenBlacklist
	limiter        *middleware.Limiter
	authConfig     middleware.AuthConfig
	oauthService   *service.OAuthService
	setupService   *service.SetupService
}

var (
	setupPasswordRule = middleware.Rule{Name: "setup_password", Limit: 5, Window: 15 * time.Minute, FailClosed: true}
	syncProfileRule   = middleware.Rule{Name: "sync_profile", Limit: 10, Window: time.Hour}
	oauthCallbackRule = middleware.Rule{Name: "oauth_callback", Limit: 20, Window: 5 * time.Minute}
)

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
// redisClient may be nil; OAuth state then lives in process memory.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	flags := featureflags.NewManager(cfg.FeatureFlags)
	providers := oauth.RegistryFromConfig(cfg, flags)
	return newServer(cfg, db, redisClient, flags, providers), nil
}

func newServer(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	flags *featureflags.Manager,
	providers *oauth.Registry,
) *Server {
	userRepo := repository.NewUserRepository(db, redisClient)
	companyRepo := repository.NewCompanyRepository(db)
	blacklist := cache.NewTokenBlacklist(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("jobportal-api"),
		userRepo:       userRepo,
		companyRepo:    companyRepo,
		featureFlags:   flags,
		providers:      providers,
		blacklist:      blacklist,
		limiter:        middleware.NewLimiter(redisClient, cfg.RateLimitsEnabled()),
		authConfig: middleware.AuthConfig{
			Secret:      cfg.JWTSecret,
			Issuer:      service.TokenIssuerClaim,
			Audience:    service.TokenAudience,
			Revocations: blacklist,
		},
	}

	issuer := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL(), cfg.FrontendURL)
	s.oauthService = service.NewOAuthService(
		providers,
		oauth.NewStateStore(redisClient, cfg.OAuthStateTTL()),
		service.NewAccountResolver(userRepo),
		service.NewEmployerPromoter(db, userRepo, companyRepo),
		issuer,
	)
	s.setupService = service.NewSetupService(userRepo, redisClient, flags, providers)
	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = defaultAllowedOrigins
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Jobportal Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthRequired(s.authConfig)

	// OAuth login
	oauthGroup := api.Group("/oauth")
	oauthGroup.Get("/urls", s.GetOAuthURLs)
	oauthGroup.Post("/setup-password", auth, s.limiter.Handler(setupPasswordRule), s.SetupPassword)
	oauthGroup.Post("/skip-password-setup", auth, s.SkipPasswordSetup)
	oauthGroup.Post("/sync-google-profile", auth, s.limiter.Handler(syncProfileRule), s.SyncGoogleProfile)
	oauthGroup.Get("/:provider/callback", s.limiter.Handler(oauthCallbackRule), s.OAuthCallback)
	oauthGroup.Get("/:provider", s.BeginOAuth)

	// Profile
	user := api.Group("/user", auth)
	user.Get("/profile", s.GetProfile)
	user.Put("/update-profile", s.UpdateProfile)

	api.Post("/auth/logout", auth, s.Logout)
	api.Get("/feature-flags", auth, s.GetFeatureFlags)
}

// LivenessCheck reports that the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database and Redis are reachable
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unhealthy"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// OAuth state falls back to memory, which only works on a single instance.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"providers": s.providers.Names(),
		"time":      time.Now(),
	})
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Jobportal API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.App()

	middleware.Logger.Info("server starting", "port", s.config.Port, "providers", s.providers.Names())
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				middleware.Logger.Error("error closing database", "error", err)
			}
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	return nil
}
