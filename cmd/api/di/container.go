package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-search-service/cmd/api/infrastructure"
	"user-search-service/internal/adapter/cache"
	"user-search-service/internal/adapter/dataset"
	"user-search-service/internal/adapter/db/postgres"
	ginhandler "user-search-service/internal/adapter/gin/handler"
	grpcadapter "user-search-service/internal/adapter/grpc"
	"user-search-service/internal/adapter/grpc/middleware"
	"user-search-service/internal/adapter/openapi"
	"user-search-service/internal/adapter/repository/cached"
	"user-search-service/internal/config"
	"user-search-service/internal/observability"
	"user-search-service/internal/usecase/user"
	redisclient "user-search-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Repository  user.Repository
	Snapshot    *cached.CachedDatasetRepository // nil when dataset caching is off
	WatchPath   string                          // dataset file to watch, "" for none
	UserUC      user.Usecase
	RateLimiter *middleware.RateLimiter
	Metrics     *observability.Metrics
	OpenAPI     []byte
	GinHandler  *ginhandler.UserHandler
	GRPCService *grpcadapter.UserServiceServer
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (c *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c = &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	// Initialize dataset source
	source, err := c.newSource(ctx)
	if err != nil {
		return nil, err
	}
	c.Repository = source

	if cfg.Dataset.CacheEnabled {
		c.Snapshot = cached.NewCachedDatasetRepository(
			source,
			time.Duration(cfg.Dataset.CacheTTLSeconds)*time.Second,
			l,
		)
		c.Repository = c.Snapshot
		if cfg.Dataset.Source == config.SourceFile && cfg.Dataset.Watch {
			c.WatchPath = cfg.Dataset.Path
		}
	}

	// Initialize Redis client
	c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	c.Metrics = observability.NewMetrics()

	// Initialize cache layer. An untyped nil keeps caching disabled.
	var pageCache cache.PageCache
	if c.RedisClient != nil {
		pageCache, err = cache.NewInstrumentedPageCache(
			cache.NewRedisPageCache(c.RedisClient.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l),
			c.Metrics.Registerer(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register cache metrics: %w", err)
		}

		// Initialize rate limiter
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	// Initialize use case
	c.UserUC = user.New(c.Repository, pageCache, l)

	c.OpenAPI, err = openapi.JSON(cfg.Logger.ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to render OpenAPI document: %w", err)
	}

	// Initialize transport handlers
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l, ginhandler.WithLegacyErrorStatus(cfg.App.LegacyErrorStatus))
	c.GRPCService = grpcadapter.NewUserServiceServer(c.UserUC, l)

	return c, nil
}

// newSource builds the repository the dataset is read from.
func (c *Container) newSource(ctx context.Context) (user.Repository, error) {
	cfg, l := c.Config, c.Logger

	switch cfg.Dataset.Source {
	case config.SourceFile:
		l.Info("using file dataset", zap.String("path", cfg.Dataset.Path))
		return dataset.NewFileStore(cfg.Dataset.Path, l), nil
	case config.SourceEmbedded:
		l.Info("using embedded dataset")
		return dataset.NewEmbeddedStore(l), nil
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	repo := postgres.NewUserRepoPG(db, l)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	if cfg.Dataset.SeedPath != "" {
		seed, err := dataset.ReadFile(cfg.Dataset.SeedPath, l)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed dataset: %w", err)
		}
		if _, err := repo.Seed(ctx, seed.Users); err != nil {
			return nil, fmt.Errorf("failed to seed users table: %w", err)
		}
	}

	return repo, nil
}

// WatchDataset invalidates the dataset snapshot whenever the dataset file
// changes. It returns immediately when there is nothing to watch.
func (c *Container) WatchDataset(ctx context.Context) error {
	if c.WatchPath == "" || c.Snapshot == nil {
		return nil
	}
	return cached.WatchFile(ctx, c.WatchPath, c.Snapshot.Invalidate, c.Logger)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
