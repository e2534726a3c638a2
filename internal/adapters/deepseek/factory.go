package deepseek

import (
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// Factory creates new instances of DeepSeekClient
type Factory struct {
	apiKey       string
	baseURL      string
	modelName    string
	systemPrompt string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
}

// NewFactory creates a new factory for DeepSeekClient instances
func NewFactory(
	apiKey string,
	baseURL string,
	modelName string,
	systemPrompt string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		apiKey:       apiKey,
		baseURL:      baseURL,
		modelName:    modelName,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		logger:       logger,
	}
}

// CreateLLMClient creates a new DeepSeekClient
func (f *Factory) CreateLLMClient() (core.LLMClient, error) {
	return NewDeepSeekClient(
		f.apiKey,
		f.baseURL,
		f.modelName,
		f.systemPrompt,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.logger,
	), nil
}
