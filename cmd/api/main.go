// Package main is the entrypoint for the Contactly API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/contactly/contactly/internal/auth"
	"github.com/contactly/contactly/internal/avatar"
	"github.com/contactly/contactly/internal/cache"
	"github.com/contactly/contactly/internal/config"
	"github.com/contactly/contactly/internal/handler"
	"github.com/contactly/contactly/internal/mailer"
	"github.com/contactly/contactly/internal/metrics"
	"github.com/contactly/contactly/internal/middleware"
	"github.com/contactly/contactly/internal/repository"
	"github.com/contactly/contactly/internal/server"
	"github.com/contactly/contactly/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Apply migrations before opening the pool
	if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to apply migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Avatar storage
	storage, err := avatar.NewStorage(ctx, avatar.StorageConfig{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		logger.Error("failed to configure avatar storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Confirmation mail is best-effort; without SMTP settings it is a no-op
	var mail mailer.Sender = mailer.Noop{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.EmailTokenTTL)
	authService := service.NewAuthService(repo, cacheClient, tokens, mail, recorder, logger, cfg.BaseURL)
	userService := service.NewUserService(repo, storage, cacheClient, recorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(authService, logger)
	contactHandler := handler.NewContactHandler(repo, recorder, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		metrics:  metricsHandler,
		auth:     authHandler,
		contacts: contactHandler,
		users:    userHandler,
		resolver: authService,
		limiter:  cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps carries everything setupRouter needs.
type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	auth     *handler.AuthHandler
	contacts *handler.ContactHandler
	users    *handler.UserHandler
	resolver middleware.UserResolver
	limiter  middleware.RateLimiter
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      d.cfg.IsDevelopment(),
		MaxRequestBodySize: d.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	if origins := d.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	// Root info endpoint
	r.Get("/", d.base.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   d.logger,
		Resolver: d.resolver,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Limiter: d.limiter,
		Enabled: d.cfg.RateLimitEnabled,
	}

	r.Route("/api", func(r chi.Router) {
		// Auth routes: rate limited by IP, no bearer token required
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(rateLimitCfg, "auth", d.cfg.RateLimitAuthPerMinute))

			r.Post("/signup", d.auth.Signup)
			r.Post("/login", d.auth.Login)
			r.Get("/refresh_token", d.auth.Refresh)
			r.Get("/confirmed_email/{token}", d.auth.ConfirmEmail)
			r.Post("/request_email", d.auth.RequestEmail)
		})

		// Contact routes: authenticated, rate limited per user
		r.Route("/contacts", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimit(rateLimitCfg, "contacts", d.cfg.RateLimitContactsPerMinute))

			r.Get("/", d.contacts.List)
			r.Get("/search", d.contacts.Search)
			r.Get("/upcoming-birthdays", d.contacts.UpcomingBirthdays)
			r.Get("/{id}", d.contacts.Get)
			r.Post("/", d.contacts.Create)
			r.Put("/{id}", d.contacts.Update)
			r.Delete("/{id}", d.contacts.Delete)
		})

		// Profile routes: authenticated, rate limited per user
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimit(rateLimitCfg, "users", d.cfg.RateLimitUsersPerMinute))

			r.Get("/me", d.users.Me)
			r.Patch("/avatar", d.users.UpdateAvatar)
		})
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
