package main

// @title           Telepost API
// @version         1.0
// @description     Social account backend for the Telepost bot. Manages OAuth credentials and posting for Threads and Twitter/X.

// @contact.name   Telepost
// @contact.url    https://github.com/AshesOfPhoenix/telepost/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Static API key shared with the bot

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AshesOfPhoenix/telepost/internal/adapters/driven/auth"
	"github.com/AshesOfPhoenix/telepost/internal/adapters/driven/postgres"
	"github.com/AshesOfPhoenix/telepost/internal/adapters/driven/providers/threads"
	"github.com/AshesOfPhoenix/telepost/internal/adapters/driven/providers/twitter"
	redisadapter "github.com/AshesOfPhoenix/telepost/internal/adapters/driven/redis"
	httpserver "github.com/AshesOfPhoenix/telepost/internal/adapters/driving/http"
	"github.com/AshesOfPhoenix/telepost/internal/config"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
	"github.com/AshesOfPhoenix/telepost/internal/core/services"
	"github.com/AshesOfPhoenix/telepost/internal/metrics"

	_ "github.com/AshesOfPhoenix/telepost/docs"
)

var version = "dev"

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := newLogger(settings.LogLevel)
	slog.SetDefault(logger)

	log.Printf("telepost %s starting on %s:%d", version, settings.Host, settings.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Database and the encrypted credential store
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             settings.DatabaseURL,
		MaxOpenConns:    settings.DBMaxOpenConns,
		MaxIdleConns:    settings.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(settings.DBConnMaxLifetimeSec) * time.Second,
		ConnMaxIdleTime: time.Duration(settings.DBConnMaxIdleSec) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	key, err := postgres.LoadKey(settings.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to load encryption key: %v", err)
	}
	cipher, err := postgres.NewCredentialCipher(key)
	if err != nil {
		log.Fatalf("Failed to initialize credential cipher: %v", err)
	}
	store := postgres.NewCredentialStore(db, cipher)

	signer := auth.NewStateSigner(settings.StateSigningSecret)

	// Provider API clients
	threadsAPI := threads.NewClient(threads.Config{
		AppID:     settings.ThreadsAppID,
		AppSecret: settings.ThreadsAppSecret,
		APIURL:    settings.ThreadsAPIURL,
		AuthURL:   settings.ThreadsAuthURL,
		Scopes:    settings.ThreadsScopes,
		Logger:    logger,
	})
	twitterAPI := twitter.NewClient(twitter.Config{
		ClientID:     settings.TwitterClientID,
		ClientSecret: settings.TwitterClientSecret,
		APIURL:       settings.TwitterAPIURL,
		AuthURL:      settings.TwitterAuthURL,
		Scopes:       settings.TwitterScopes,
		Logger:       logger,
	})

	// Auth handlers and social controllers
	threadsAuth := services.NewThreadsAuthHandler(services.ThreadsAuthHandlerConfig{
		API:         threadsAPI,
		Store:       store,
		Signer:      signer,
		RedirectURI: settings.ThreadsRedirectURI(),
		Scopes:      settings.ThreadsScopes,
		Logger:      logger,
	})
	twitterAuth := services.NewTwitterAuthHandler(services.TwitterAuthHandlerConfig{
		API:         twitterAPI,
		Store:       store,
		Signer:      signer,
		RedirectURI: settings.TwitterRedirectURI(),
		Logger:      logger,
	})

	threadsSocial := services.NewThreadsSocialController(services.ThreadsSocialControllerConfig{
		Auth:   threadsAuth,
		API:    threadsAPI,
		Logger: logger,
	})
	twitterSocial := services.NewTwitterSocialController(services.TwitterSocialControllerConfig{
		Auth:   twitterAuth,
		API:    twitterAPI,
		Logger: logger,
	})

	// Redis-backed rate limiting, enabled when REDIS_URL is set
	var limiter driven.RateLimiter
	if settings.RedisURL != "" {
		opts, err := redis.ParseURL(settings.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		limiter = redisadapter.NewLimiter(client, settings.RateLimit, time.Duration(settings.RateLimitWindow)*time.Second)
		log.Printf("Rate limiting enabled: %d requests per %ds", settings.RateLimit, settings.RateLimitWindow)
	}

	metricsHandler, err := metrics.Register(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	server := httpserver.NewServer(
		httpserver.Config{
			Host:            settings.Host,
			Port:            settings.Port,
			Version:         version,
			APIKey:          settings.APIKey,
			APIKeyHeader:    settings.APIKeyHeaderName,
			CORSOrigins:     settings.CORSOrigins,
			TelegramBotName: settings.TelegramBotName,
			Logger:          logger,
		},
		[]driving.AuthHandler{threadsAuth, twitterAuth},
		[]driving.SocialController{threadsSocial, twitterSocial},
		limiter,
		db,
		metricsHandler,
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
