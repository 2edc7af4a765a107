// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"schemaforge-api/internal/application/generation"
	"schemaforge-api/internal/application/quota"
	appschema "schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/catalog"
	"schemaforge-api/internal/config"
	"schemaforge-api/internal/domain/repository"
	domainservice "schemaforge-api/internal/domain/service"
	"schemaforge-api/internal/infrastructure/llm"
	"schemaforge-api/internal/infrastructure/persistence/postgres"
	"schemaforge-api/internal/infrastructure/persistence/redis"
	"schemaforge-api/internal/interfaces/http/handler"
	"schemaforge-api/internal/interfaces/http/middleware"
	"schemaforge-api/internal/interfaces/http/router"
	"schemaforge-api/internal/workflow/chain"
	"schemaforge-api/pkg/logger"
)

// App 组装完成的应用
type App struct {
	Router   *router.Router
	Registry *appschema.Registry

	pgClient    *postgres.Client
	redisClient *redis.Client
}

// Close 释放数据层连接
func (a *App) Close() {
	ctx := context.Background()
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logger.Warn(ctx, "redis close failed", "error", err.Error())
		}
	}
	if a.pgClient != nil {
		if err := a.pgClient.Close(); err != nil {
			logger.Warn(ctx, "postgres close failed", "error", err.Error())
		}
	}
}

// InitializeApp 按配置组装全部依赖。
// PostgreSQL 与 Redis 均为可选：未配置主机时跳过，对应能力（蓝图持久化、
// 缓存、限流、用量落库）自动降级，生成主链路不受影响。
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// 数据层
	var blueprintRepo repository.BlueprintRepository
	var usageRecorder domainservice.LLMUsageRecorder

	if cfg.Database.Postgres.Host != "" {
		pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		app.pgClient = pgClient
		if err := pgClient.AutoMigrate(); err != nil {
			app.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		blueprintRepo = postgres.NewBlueprintRepository(pgClient)
		usageRecorder = quota.NewLLMUsageRecorder(postgres.NewLLMUsageEventRepository(pgClient))
	} else {
		logger.Info(ctx, "postgres not configured, blueprints and usage accounting disabled")
	}

	var limiter middleware.RateLimiter
	if cfg.Cache.Redis.Host != "" {
		redisClient, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		app.redisClient = redisClient
		limiter = redis.NewRateLimiter(redisClient)
		if blueprintRepo != nil {
			blueprintRepo = redis.NewCachedBlueprintRepository(blueprintRepo, redis.NewCache(redisClient))
		}
	} else {
		logger.Info(ctx, "redis not configured, caching and rate limiting disabled")
	}

	// 类型注册表与内置类型
	registry := appschema.NewRegistry()
	if err := catalog.Register(registry); err != nil {
		app.Close()
		return nil, fmt.Errorf("register builtin types: %w", err)
	}
	app.Registry = registry

	// 生成链路
	factory := llm.NewEinoFactory(cfg)
	synthesisChain := chain.NewSynthesisChain(factory, cfg.Generation.MaxContextRunes)
	svc := generation.NewService(cfg, registry, synthesisChain, blueprintRepo, usageRecorder)

	// HTTP 接口层
	handlers := &router.Handlers{
		Health:     handler.NewHealthHandler(app.pgClient, app.redisClient),
		Generation: handler.NewGenerationHandler(cfg, svc),
		Schema:     handler.NewSchemaHandler(registry),
	}
	if blueprintRepo != nil {
		handlers.Blueprint = handler.NewBlueprintHandler(blueprintRepo, registry)
	}

	app.Router = router.New(cfg, handlers, limiter)
	return app, nil
}
