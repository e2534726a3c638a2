package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ardika/judol-filter/internal/config"
	"github.com/ardika/judol-filter/internal/core"
	"github.com/ardika/judol-filter/internal/factory"
	"github.com/ardika/judol-filter/internal/logging"
)

var (
	// LLM provider flags
	provider   = flag.String("provider", "deepseek", "LLM provider (deepseek, gemini)")
	maxRetries = flag.Int("max-retries", 3, "Maximum provider retries")
	timeout    = flag.Duration("timeout", 30*time.Second, "Per-attempt provider call timeout")
	promptFile = flag.String("prompt-file", "", "File holding the classification prompt")

	// DeepSeek flags
	deepseekAPIKey = flag.String("deepseek-api-key", "", "API key for DeepSeek")
	deepseekModel  = flag.String("deepseek-model", "deepseek-chat", "DeepSeek model name")

	// Gemini flags
	geminiAPIKey = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModel  = flag.String("gemini-model", "gemini-2.0-flash-lite", "Gemini model name")

	// Classification flags
	keywords  = flag.String("keywords", "", "Comma-separated gambling-brand keyword dictionary")
	maxLength = flag.Int("max-length", 2000, "Maximum accepted comment length")

	// Input flags
	inputFile  = flag.String("file", "", "Input comment file (use stdin if no file and no argument)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	// Initialize LLM client
	llmFactory := factory.NewLLMFactory(cfg, logger)
	llmClient, err := llmFactory.CreateLLMClient()
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	comment, err := readComment()
	if err != nil {
		logger.Fatal("Failed to read comment", zap.Error(err))
	}

	dictionary := cfg.GetStringSlice("spam.keywords")

	fmt.Printf("\n=== Comment ===\n%s\n\n", comment)
	fmt.Printf("=== Analysis ===\n")
	fmt.Printf("Provider: %s\n", cfg.GetString("llm.provider"))
	fmt.Printf("Dictionary size: %d\n", len(dictionary))

	validator := core.NewValidator(cfg.GetInt("server.max_comment_length"))
	validated, err := validator.Validate(comment)
	if err != nil {
		logger.Fatal("Comment rejected", zap.Error(err))
	}

	startTime := time.Now()
	raw, err := llmClient.Classify(context.Background(), validated.Text)
	if err != nil {
		logger.Fatal("Failed to classify comment", zap.Error(err))
	}
	duration := time.Since(startTime)

	result, err := core.ParseTriplet(raw)
	if err != nil {
		logger.Fatal("Provider response violates contract", zap.String("raw", raw), zap.Error(err))
	}
	result.Keyword = core.NewKeywordNormalizer(dictionary).Normalize(result.Keyword, result.IsSpam)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is spam: %t\n", result.IsSpam)
	fmt.Printf("Keyword: %s\n", result.Keyword)
	fmt.Printf("Confidence: %.4f\n", result.Confidence)
	fmt.Printf("Triplet: %s\n", result.Triplet())
	fmt.Printf("Processing time: %v\n", duration)

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
}

// readComment takes the comment from the positional argument, the input
// file, or stdin, in that order.
func readComment() (string, error) {
	if flag.NArg() > 0 {
		return strings.Join(flag.Args(), " "), nil
	}

	var reader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			return "", err
		}
		defer file.Close()
		reader = file
	} else {
		reader = os.Stdin
	}

	raw, err := io.ReadAll(bufio.NewReader(reader))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// createConfigFromFlags builds the configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)
	v.Set("llm.max_retries", *maxRetries)
	v.Set("llm.timeout", timeout.String())
	if *promptFile != "" {
		v.Set("llm.prompt_file", *promptFile)
	}

	v.Set("deepseek.api_key", *deepseekAPIKey)
	v.Set("deepseek.model_name", *deepseekModel)
	v.Set("gemini.api_key", *geminiAPIKey)
	v.Set("gemini.model_name", *geminiModel)

	v.Set("server.max_comment_length", *maxLength)

	if *keywords != "" {
		parts := strings.Split(*keywords, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		v.Set("spam.keywords", parts)
	}

	return config.NewFromViper(v)
}
