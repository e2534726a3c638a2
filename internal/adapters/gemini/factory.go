package gemini

import (
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// Factory creates new instances of GeminiClient
type Factory struct {
	apiKey       string
	modelName    string
	systemPrompt string
	maxTokens    int
	temperature  float32
	topP         float32
	topK         int
	logger       *zap.Logger
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(
	apiKey string,
	modelName string,
	systemPrompt string,
	maxTokens int,
	temperature float32,
	topP float32,
	topK int,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		apiKey:       apiKey,
		modelName:    modelName,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		topK:         topK,
		logger:       logger,
	}
}

// CreateLLMClient creates a new GeminiClient
func (f *Factory) CreateLLMClient() (core.LLMClient, error) {
	return NewGeminiClient(
		f.apiKey,
		f.modelName,
		f.systemPrompt,
		f.maxTokens,
		f.temperature,
		f.topP,
		f.topK,
		f.logger,
	)
}
