package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultSystemPrompt is the classification instruction sent to the
// provider when no prompt file is configured. The response contract is
// the bare "S,K,C" triplet the parser enforces.
const defaultSystemPrompt = `Kamu adalah sistem deteksi komentar spam judi online (judol) di YouTube Indonesia. ` +
	`Analisis komentar berikut. Jawab HANYA satu baris dengan format: S,K,C ` +
	`di mana S adalah 1 jika komentar mempromosikan situs judi dan 0 jika tidak, ` +
	`K adalah nama situs/brand judi yang dipromosikan (atau N/A jika tidak ada), ` +
	`dan C adalah tingkat keyakinanmu antara 0.00 dan 1.00. ` +
	`Contoh: 1,KYT4D,0.95 atau 0,N/A,0.98. Jangan tulis apa pun selain baris itu.`

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/judol-filter/")
	v.AddConfigPath("$HOME/.judol-filter")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("JUDOL_FILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "deepseek")
	v.SetDefault("llm.prompt_file", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.backoff_base", "500ms")
	v.SetDefault("llm.max_backoff", "30s")

	// DeepSeek defaults
	v.SetDefault("deepseek.api_key", "")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("deepseek.model_name", "deepseek-chat")
	v.SetDefault("deepseek.max_tokens", 50)
	v.SetDefault("deepseek.temperature", 0.2)
	v.SetDefault("deepseek.top_p", 0.5)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-2.0-flash-lite")
	v.SetDefault("gemini.max_tokens", 50)
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("gemini.top_p", 0.5)
	v.SetDefault("gemini.top_k", 3)

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.allowed_origin", "https://www.youtube.com")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.max_body_bytes", 65536)
	v.SetDefault("server.max_comment_length", 2000)

	// Spam keyword dictionary
	v.SetDefault("spam.keywords", []string{})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.key_prefix", "judol")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.sqlite_path", "/data/judol_cache.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetSystemPrompt resolves the classification prompt: the configured
// prompt file wins, otherwise the built-in default.
func (c *Config) GetSystemPrompt() (string, error) {
	path := c.GetString("llm.prompt_file")
	if path == "" {
		return defaultSystemPrompt, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	prompt := strings.TrimSpace(string(raw))
	if prompt == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return prompt, nil
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
