// File: app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"granite-core/client"
	"granite-core/config"
	"granite-core/db"
	"granite-core/deeplink"
	"granite-core/handler"
	"granite-core/logger"
	"granite-core/repository"
	"granite-core/router"
	"granite-core/service"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deps are the collaborators the core is assembled from.
type Deps struct {
	Tokens         *repository.TokenRepository
	Cache          service.ICacheClient // nil disables query caching
	CacheTTL       time.Duration
	AuthAPI        service.IAuthAPI
	TransactionAPI service.ITransactionAPI
	Links          deeplink.Config
}

// App is the wired client core.
type App struct {
	Handler      http.Handler
	Tokens       *repository.TokenRepository
	Auth         *service.AuthService
	Transactions *service.TransactionService
	Resolver     *deeplink.Resolver
}

// New wires repositories, services and handlers together.
func New(d Deps) (*App, error) {
	resolver, err := deeplink.NewResolver(d.Links)
	if err != nil {
		return nil, err
	}

	queries := service.NewQueryCache(d.Cache, d.CacheTTL)

	authService := service.NewAuthService(d.Tokens, d.AuthAPI, queries)
	transactionService := service.NewTransactionService(d.TransactionAPI, d.Tokens, queries)

	h := router.NewRouter(router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		DeepLinks:    handler.NewDeepLinkHandler(resolver, authService),
		Transactions: handler.NewTransactionHandler(transactionService),
		RequireAuth:  handler.AuthMiddleware(authService),
	})

	return &App{
		Handler:      h,
		Tokens:       d.Tokens,
		Auth:         authService,
		Transactions: transactionService,
		Resolver:     resolver,
	}, nil
}

// openStore connects the configured durable backend. The returned closer
// releases its connection.
func openStore(rdb *redis.Client) (repository.KeyValueStore, io.Closer, error) {
	var (
		store  repository.KeyValueStore
		closer io.Closer
	)

	switch config.AppConfig.Storage.Driver {
	case "redis":
		if rdb == nil {
			return nil, nil, errors.New("storage driver redis requires a reachable redis")
		}
		store = repository.NewRedisKVStore(rdb)
	case "postgres", "":
		database, err := db.Connect()
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(config.AppConfig.Storage.Migrations, db.ConnString()); err != nil {
			database.Close()
			return nil, nil, err
		}
		store, closer = repository.NewPostgresKVStore(database), database
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", config.AppConfig.Storage.Driver)
	}

	if key := config.AppConfig.Storage.EncryptionKey; key != "" {
		secure, err := repository.NewSecureStore(store, key)
		if err != nil {
			if closer != nil {
				closer.Close()
			}
			return nil, nil, err
		}
		store = secure
		logger.Log.Info("Token storage encryption enabled")
	}
	return store, closer, nil
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.SetLevel(config.AppConfig.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	rdb, err := db.ConnectRedis()
	if err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, query caching disabled")
	} else {
		defer rdb.Close()
	}

	store, closer, err := openStore(rdb)
	if err != nil {
		logger.Log.Fatalf("Error opening token storage: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	tokens := repository.NewTokenRepository(store, config.AppConfig.Storage.TokenKey)

	apiClient, err := client.New(config.AppConfig.API.BaseURL, config.AppConfig.API.Timeout, tokens)
	if err != nil {
		logger.Log.Fatalf("Error creating API client: %v", err)
	}

	links := deeplink.DefaultConfig(config.AppConfig.DeepLink.WebPrefixes...)
	if scheme := config.AppConfig.DeepLink.Scheme; scheme != "" {
		links.Prefixes[0] = scheme
	}
	links.Policy = deeplink.ParsePolicy(config.AppConfig.DeepLink.CoercionPolicy)

	deps := Deps{
		Tokens:         tokens,
		CacheTTL:       config.AppConfig.Cache.TTL,
		AuthAPI:        apiClient,
		TransactionAPI: apiClient,
		Links:          links,
	}
	if rdb != nil {
		deps.Cache = rdb
	}

	core, err := New(deps)
	if err != nil {
		logger.Log.Fatalf("Error wiring client core: %v", err)
	}

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           core.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Infof("Client core listening on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
