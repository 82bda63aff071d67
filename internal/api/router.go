package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/viewtube/account-service/internal/api/handler"
	"github.com/viewtube/account-service/internal/api/middleware"
	"github.com/viewtube/account-service/internal/core/ports"
	"github.com/viewtube/account-service/internal/core/service"
	"github.com/viewtube/account-service/internal/infrastructure/config"
	mongodb "github.com/viewtube/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/viewtube/account-service/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, store ports.MediaStore, cleanup service.MediaCleanup, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("account"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)

	tokenService := service.NewTokenService(userRepo, service.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	authService := service.NewAuthService(userRepo, tokenService, log)
	profileService := service.NewProfileService(userRepo, profileRepo, cleanup, log)

	cookies := handler.NewCookieHelper(cfg.Cookie, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)

	userHandler := handler.NewUserHandler(authService, store, cookies)
	profileHandler := handler.NewProfileHandler(profileService)
	mediaHandler := handler.NewMediaHandler(profileService, store)

	authRequired := middleware.Auth(cfg.JWT.AccessSecret)
	loginLimited := middleware.RateLimit(limiter, log)

	// --- User routes ---
	users := e.Group("/api/v1/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login, loginLimited)
	users.POST("/refresh-token", userHandler.Refresh)
	users.POST("/logout", userHandler.Logout, authRequired)
	users.POST("/change-password", userHandler.ChangePassword, authRequired)
	users.GET("/current-user", userHandler.CurrentUser, authRequired)
	users.PATCH("/update-account", profileHandler.UpdateAccount, authRequired)
	users.PATCH("/avatar", mediaHandler.UpdateAvatar, authRequired)
	users.PATCH("/cover-image", mediaHandler.UpdateCoverImage, authRequired)
	users.GET("/c/:username", profileHandler.ChannelProfile, authRequired)
	users.GET("/history", profileHandler.WatchHistory, authRequired)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
