package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/confirmation"
	"reviewhub/internal/httpapi/access"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/httpapi/validation"
	"reviewhub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}

	redisClient := cache.NewClient(cfg.RedisURL, cfg.RedisPassword, logger)
	if redisClient == nil {
		return errors.New("redis is required for confirmation codes")
	}

	if err := validation.Register(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Supporting infrastructure
	codes := confirmation.NewRedisStore(redisClient, cfg.ConfirmationCodeTTL)
	ratingCache := cache.NewRatingCache(redisClient, cfg.RatingCacheTTL)

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail)
	} else {
		logger.Warn("SMTP_HOST not set, confirmation codes go to the log")
		mail = mailer.NewLogMailer(logger)
	}

	// Services
	ratings := service.NewRatingAggregator(reviewRepo, ratingCache)
	authService := service.NewAuthService(userRepo, codes, mail, cfg.JWTSecret, cfg.AccessTokenTTL)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, ratings)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratings)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	genreHandler := handler.NewGenreHandler(genreService)
	titleHandler := handler.NewTitleHandler(titleService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	commentHandler := handler.NewCommentHandler(commentService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.MetricsHandler())

	api := router.Group("/api/v1")

	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)
	authGroup := api.Group("/auth", authLimiter.Middleware())
	authHandler.RegisterRoutes(authGroup)

	authenticate := middleware.Authenticate(authService, userRepo)
	optionalAuth := middleware.OptionalAuthenticate(authService, userRepo)

	// /users/me must match before the admin gate claims /users/:username
	meGroup := api.Group("/users", authenticate)
	userHandler.RegisterMeRoutes(meGroup)

	usersGroup := api.Group("/users", authenticate, middleware.RequirePolicy(access.AdminOnly))
	userHandler.RegisterRoutes(usersGroup)

	categoriesGroup := api.Group("/categories", optionalAuth, middleware.RequirePolicy(access.AdminOrReadOnly))
	categoryHandler.RegisterRoutes(categoriesGroup)

	genresGroup := api.Group("/genres", optionalAuth, middleware.RequirePolicy(access.AdminOrReadOnly))
	genreHandler.RegisterRoutes(genresGroup)

	titlesGroup := api.Group("/titles", optionalAuth, middleware.RequirePolicy(access.AdminOrReadOnly))
	titleHandler.RegisterRoutes(titlesGroup)

	reviewsGroup := api.Group("/titles/:title_id/reviews",
		optionalAuth, middleware.RequirePolicy(access.AuthenticatedOrReadOnly))
	reviewHandler.RegisterRoutes(reviewsGroup)

	commentsGroup := api.Group("/titles/:title_id/reviews/:review_id/comments",
		optionalAuth, middleware.RequirePolicy(access.AuthenticatedOrReadOnly))
	commentHandler.RegisterRoutes(commentsGroup)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.HTTPPort, "env", cfg.GoEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
