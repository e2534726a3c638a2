package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ardika/judol-filter/internal/core"
)

// GeminiClient is an implementation of the LLMClient interface using
// Google Gemini.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiClient creates a new Gemini client with constrained
// generation parameters: the stop sequence pins the model to a single
// response line and the low temperature keeps the triplet deterministic.
func NewGeminiClient(
	apiKey string,
	modelName string,
	systemPrompt string,
	maxTokens int,
	temperature float32,
	topP float32,
	topK int,
	logger *zap.Logger,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetTopK(int32(topK))
	model.SetMaxOutputTokens(int32(maxTokens))
	model.StopSequences = []string{"\n"}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify submits a comment for classification and returns the model's
// raw completion text.
func (c *GeminiClient) Classify(ctx context.Context, comment string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(comment))
	if err != nil {
		return "", classifyAPIError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &core.ProviderError{
			Kind: core.ProviderMalformed,
			Err:  fmt.Errorf("empty response from Gemini"),
		}
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", &core.ProviderError{
			Kind: core.ProviderMalformed,
			Err:  fmt.Errorf("unexpected part type %T in Gemini response", resp.Candidates[0].Content.Parts[0]),
		}
	}

	c.logger.Debug("Gemini completion received", zap.String("model", c.modelName))

	return string(text), nil
}

// classifyAPIError maps googleapi and transport failures onto the
// provider error taxonomy.
func classifyAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return &core.ProviderError{Kind: core.ProviderAuthFailure, Err: err}
		case apiErr.Code == 429:
			return &core.ProviderError{Kind: core.ProviderRateLimited, Err: err}
		case apiErr.Code >= 500:
			return &core.ProviderError{Kind: core.ProviderUnavailable, Err: err}
		default:
			return &core.ProviderError{Kind: core.ProviderMalformed, Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &core.ProviderError{Kind: core.ProviderTimeout, Err: err}
	}

	return &core.ProviderError{Kind: core.ProviderUnavailable, Err: err}
}
