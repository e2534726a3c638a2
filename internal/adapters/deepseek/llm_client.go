package deepseek

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/core"
)

// DeepSeekClient is an implementation of the LLMClient interface using
// DeepSeek's OpenAI-compatible chat completions API.
type DeepSeekClient struct {
	client       *openai.Client
	modelName    string
	systemPrompt string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
}

// NewDeepSeekClient creates a new DeepSeek client. baseURL defaults to
// the public DeepSeek endpoint when empty.
func NewDeepSeekClient(
	apiKey string,
	baseURL string,
	modelName string,
	systemPrompt string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *DeepSeekClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &DeepSeekClient{
		client:       openai.NewClientWithConfig(cfg),
		modelName:    modelName,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		logger:       logger,
	}
}

// Classify submits a comment for classification and returns the model's
// raw completion text.
func (c *DeepSeekClient) Classify(ctx context.Context, comment string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: comment,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		Stop:        []string{"\n"},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &core.ProviderError{
			Kind: core.ProviderMalformed,
			Err:  fmt.Errorf("empty response from DeepSeek"),
		}
	}

	c.logger.Debug("DeepSeek completion received",
		zap.String("id", resp.ID),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

// classifyAPIError maps transport and API failures onto the provider
// error taxonomy so the retry policy can tell transient from fatal.
func classifyAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &core.ProviderError{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &core.ProviderError{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &core.ProviderError{Kind: core.ProviderTimeout, Err: err}
	}

	return &core.ProviderError{Kind: core.ProviderUnavailable, Err: err}
}

func kindForStatus(status int) core.ProviderErrorKind {
	switch {
	case status == 401 || status == 403:
		return core.ProviderAuthFailure
	case status == 429:
		return core.ProviderRateLimited
	case status == 408:
		return core.ProviderTimeout
	case status >= 500:
		return core.ProviderUnavailable
	default:
		return core.ProviderMalformed
	}
}
