package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported text-generation providers
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

// Default models per provider, used when ai.model is empty
const (
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

// ErrMissingCredential is returned by Load when the selected provider has no API key.
// It is a startup-time failure, never a per-request one.
var ErrMissingCredential = errors.New("text-generation credential is not configured")

// Config holds all application configuration
type Config struct {
	App        App        `mapstructure:"app"`
	AI         AI         `mapstructure:"ai"`
	Newsletter Newsletter `mapstructure:"newsletter"`
	Output     Output     `mapstructure:"output"`
	Sharing    Sharing    `mapstructure:"sharing"`
	Server     Server     `mapstructure:"server"`
	Logging    Logging    `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug      bool   `mapstructure:"debug"`
	ConfigFile string `mapstructure:"config_file"`
}

// AI holds text-generation service configuration
type AI struct {
	Provider   string      `mapstructure:"provider"`
	Model      string      `mapstructure:"model"`
	MaxTokens  int         `mapstructure:"max_tokens"`
	Timeout    string      `mapstructure:"timeout"`
	MaxRetries int         `mapstructure:"max_retries"`
	Anthropic  ProviderKey `mapstructure:"anthropic"`
	Gemini     ProviderKey `mapstructure:"gemini"`
	OpenAI     ProviderKey `mapstructure:"openai"`
}

// ProviderKey holds a provider credential and optional endpoint override
type ProviderKey struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Newsletter holds the fixed wording of exported newsletters
type Newsletter struct {
	Greeting    string `mapstructure:"greeting"`
	SenderName  string `mapstructure:"sender_name"`
	SenderTitle string `mapstructure:"sender_title"`
	Channel     string `mapstructure:"channel"`
}

// Output holds output configuration
type Output struct {
	Directory string `mapstructure:"directory"`
	Format    string `mapstructure:"format"`
}

// Sharing holds team channel webhooks used by generate --share
type Sharing struct {
	SlackWebhookURL   string `mapstructure:"slack_webhook_url"`
	DiscordWebhookURL string `mapstructure:"discord_webhook_url"`
}

// Server holds HTTP server configuration
type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	APIKey          string        `mapstructure:"api_key"` // Bearer token required on /api routes when set
	CORS            CORS          `mapstructure:"cors"`
}

// CORS holds cross-origin configuration for the HTTP API
type CORS struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var globalConfig *Config

// Load loads the configuration from defaults, the config file, .env and the environment.
// A missing credential for the selected provider fails with ErrMissingCredential.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".insightly")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.App.ConfigFile = viper.ConfigFileUsed()

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)

	viper.SetDefault("ai.provider", ProviderAnthropic)
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.max_tokens", 3000)
	viper.SetDefault("ai.timeout", "90s")
	viper.SetDefault("ai.max_retries", 2)

	viper.SetDefault("newsletter.greeting", "Hi team,")
	viper.SetDefault("newsletter.sender_name", "Your Product Leadership Team")
	viper.SetDefault("newsletter.sender_title", "AI & PM Insights")
	viper.SetDefault("newsletter.channel", "our team channel")

	viper.SetDefault("output.directory", "newsletters")
	viper.SetDefault("output.format", "email")

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "180s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.cors.enabled", false)
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	bindEnvKeys("ai.provider", []string{
		"INSIGHTLY_PROVIDER",
		"AI_PROVIDER",
	})

	bindEnvKeys("ai.model", []string{
		"INSIGHTLY_MODEL",
	})

	bindEnvKeys("ai.anthropic.api_key", []string{
		"ANTHROPIC_API_KEY",
	})

	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys("ai.openai.api_key", []string{
		"OPENAI_API_KEY",
	})

	bindEnvKeys("sharing.slack_webhook_url", []string{
		"SLACK_WEBHOOK_URL",
	})

	bindEnvKeys("sharing.discord_webhook_url", []string{
		"DISCORD_WEBHOOK_URL",
	})

	bindEnvKeys("server.api_key", []string{
		"INSIGHTLY_API_KEY",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"INSIGHTLY_DEBUG",
	})

	bindEnvKeys("logging.level", []string{
		"LOG_LEVEL",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig applies post-processing to configuration values
func postProcessConfig(config *Config) error {
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	if config.Output.Directory != "" {
		config.Output.Directory = expandPath(config.Output.Directory)
	}

	if config.App.Debug {
		config.Logging.Level = "debug"
	}

	if config.AI.Timeout != "" {
		if _, err := time.ParseDuration(config.AI.Timeout); err != nil {
			return fmt.Errorf("invalid duration for ai.timeout: %s", config.AI.Timeout)
		}
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// validateConfig ensures required configuration is present
func validateConfig(config *Config) error {
	var errs []error

	switch config.AI.Provider {
	case ProviderAnthropic, ProviderGemini, ProviderOpenAI:
		if !isValidAPIKey(config.AI.APIKey()) {
			errs = append(errs, fmt.Errorf("%w: set %s or ai.%s.api_key in the config file",
				ErrMissingCredential, credentialEnv(config.AI.Provider), config.AI.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ai.provider %q. Supported: anthropic, gemini, openai", config.AI.Provider))
	}

	if config.AI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("ai.max_tokens must be positive, got %d", config.AI.MaxTokens))
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", config.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}

func credentialEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// APIKey returns the credential for the selected provider.
func (a AI) APIKey() string {
	switch a.Provider {
	case ProviderGemini:
		return a.Gemini.APIKey
	case ProviderOpenAI:
		return a.OpenAI.APIKey
	default:
		return a.Anthropic.APIKey
	}
}

// BaseURL returns the endpoint override for the selected provider, if any.
func (a AI) BaseURL() string {
	switch a.Provider {
	case ProviderGemini:
		return a.Gemini.BaseURL
	case ProviderOpenAI:
		return a.OpenAI.BaseURL
	default:
		return a.Anthropic.BaseURL
	}
}

// ModelName returns ai.model or the provider default.
func (a AI) ModelName() string {
	if a.Model != "" {
		return a.Model
	}
	switch a.Provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultAnthropicModel
	}
}

// RequestTimeout returns the per-request timeout, zero meaning none.
func (a AI) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// isValidAPIKey checks if an API key is valid (not empty and not a placeholder)
func isValidAPIKey(apiKey string) bool {
	if strings.TrimSpace(apiKey) == "" {
		return false
	}

	placeholders := []string{
		"your-api-key", "your-anthropic-key", "your-gemini-key", "your-openai-key",
		"YOUR_API_KEY", "PLACEHOLDER", "TODO", "CHANGE_ME",
	}

	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			return false
		}
	}

	return true
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
