package di

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/adapters/httpapi"
	"github.com/ardika/judol-filter/internal/config"
	"github.com/ardika/judol-filter/internal/core"
	"github.com/ardika/judol-filter/internal/factory"
	"github.com/ardika/judol-filter/internal/logging"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}

	// Register LLM client (retry-wrapped provider selected by config)
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register pipeline bounds
	if err := container.Provide(func(f *factory.CacheFactory) (core.PipelineConfig, error) {
		ttl, err := f.GetCacheTTL()
		if err != nil {
			return core.PipelineConfig{}, fmt.Errorf("invalid cache.ttl: %w", err)
		}
		return core.PipelineConfig{CacheTTL: ttl}, nil
	}); err != nil {
		return nil, err
	}

	// Register pipeline components
	if err := container.Provide(func(cfg *config.Config) *core.Validator {
		return core.NewValidator(cfg.GetInt("server.max_comment_length"))
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *core.KeywordNormalizer {
		keywords := cfg.GetStringSlice("spam.keywords")
		if len(keywords) > 0 {
			logger.Info("loaded gambling keyword dictionary", zap.Int("keywords", len(keywords)))
		}
		return core.NewKeywordNormalizer(keywords)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewKeywordIndex); err != nil {
		return nil, err
	}

	// Register classifier service
	if err := container.Provide(core.NewClassifierService); err != nil {
		return nil, err
	}

	// Register HTTP API
	if err := container.Provide(func(svc *core.ClassifierService) httpapi.Classifier {
		return svc
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(httpapi.NewHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config) (httpapi.ServerConfig, error) {
		timeout, err := cfg.GetDuration("server.request_timeout")
		if err != nil {
			return httpapi.ServerConfig{}, fmt.Errorf("invalid server.request_timeout: %w", err)
		}
		return httpapi.ServerConfig{
			ListenAddress:  cfg.GetString("server.listen_address"),
			AllowedOrigin:  cfg.GetString("server.allowed_origin"),
			RequestTimeout: timeout,
			MaxBodyBytes:   int64(cfg.GetInt("server.max_body_bytes")),
		}, nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(httpapi.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
