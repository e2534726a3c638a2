package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/adapters/deepseek"
	"github.com/ardika/judol-filter/internal/adapters/gemini"
	"github.com/ardika/judol-filter/internal/config"
	"github.com/ardika/judol-filter/internal/core"
)

// LLMFactory creates provider clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates the configured provider client wrapped with
// the retry policy. There is deliberately no fallback chain: when the
// configured provider is exhausted the classification fails.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	prompt, err := f.cfg.GetSystemPrompt()
	if err != nil {
		return nil, err
	}

	var client core.LLMClient

	provider := f.cfg.GetString("llm.provider")
	switch provider {
	case "deepseek":
		client, err = deepseek.NewFactory(
			f.cfg.GetString("deepseek.api_key"),
			f.cfg.GetString("deepseek.base_url"),
			f.cfg.GetString("deepseek.model_name"),
			prompt,
			f.cfg.GetInt("deepseek.max_tokens"),
			float32(f.cfg.GetFloat64("deepseek.temperature")),
			float32(f.cfg.GetFloat64("deepseek.top_p")),
			f.logger,
		).CreateLLMClient()
	case "gemini":
		client, err = gemini.NewFactory(
			f.cfg.GetString("gemini.api_key"),
			f.cfg.GetString("gemini.model_name"),
			prompt,
			f.cfg.GetInt("gemini.max_tokens"),
			float32(f.cfg.GetFloat64("gemini.temperature")),
			float32(f.cfg.GetFloat64("gemini.top_p")),
			f.cfg.GetInt("gemini.top_k"),
			f.logger,
		).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	policy, err := f.retryPolicy()
	if err != nil {
		return nil, err
	}

	f.logger.Info("LLM provider configured",
		zap.String("provider", provider),
		zap.Int("max_retries", policy.MaxRetries))

	return core.NewRetryingClient(client, policy, f.logger), nil
}

func (f *LLMFactory) retryPolicy() (core.RetryPolicy, error) {
	backoffBase, err := f.cfg.GetDuration("llm.backoff_base")
	if err != nil {
		return core.RetryPolicy{}, fmt.Errorf("invalid llm.backoff_base: %w", err)
	}
	maxBackoff, err := f.cfg.GetDuration("llm.max_backoff")
	if err != nil {
		return core.RetryPolicy{}, fmt.Errorf("invalid llm.max_backoff: %w", err)
	}
	attemptTimeout, err := f.cfg.GetDuration("llm.timeout")
	if err != nil {
		return core.RetryPolicy{}, fmt.Errorf("invalid llm.timeout: %w", err)
	}
	return core.RetryPolicy{
		MaxRetries:     f.cfg.GetInt("llm.max_retries"),
		BackoffBase:    backoffBase,
		MaxBackoff:     maxBackoff,
		AttemptTimeout: attemptTimeout,
	}, nil
}
