package config

import (
	"errors"
	"fmt"
	"linerelay/internal/core/domain"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Line       LineConfig
	Completion CompletionConfig
	Server     ServerConfig
	// FallbackMessage is replied when generation fails.
	FallbackMessage string
	LogLevel        zerolog.Level
}

type LineConfig struct {
	ChannelSecret      string
	ChannelAccessToken string
}

type CompletionConfig struct {
	Provider     string
	APIKey       string
	Model        string
	SystemPrompt string
	MaxTokens    int
}

type ServerConfig struct {
	Host string
	Port int
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MissingSecretsError lists every required environment variable that was not set.
type MissingSecretsError struct {
	Names []string
}

func (e *MissingSecretsError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

type secret struct {
	key string
	env string
}

var (
	channelSecret      = secret{key: "line.channel_secret", env: "LINE_CHANNEL_SECRET"}
	channelAccessToken = secret{key: "line.channel_access_token", env: "LINE_CHANNEL_ACCESS_TOKEN"}
	anthropicAPIKey    = secret{key: "anthropic.api_key", env: "ANTHROPIC_API_KEY"}
	openRouterAPIKey   = secret{key: "openrouter.api_key", env: "OPENROUTER_API_KEY"}
)

// LoadDotEnv copies a .env file into the process environment. Variables already set win.
func LoadDotEnv(path string) error {
	err := gotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	return nil
}

// Load resolves the configuration from defaults, an optional TOML file, the environment and
// the "config" and "port" flags when present in flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for _, s := range []secret{channelSecret, channelAccessToken, anthropicAPIKey, openRouterAPIKey} {
		_ = v.BindEnv(s.key, s.env)
	}
	_ = v.BindEnv("completion.provider", "COMPLETION_PROVIDER")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("bot.log_level", "LOG_LEVEL")

	configFile := ""
	if flags != nil {
		if f := flags.Lookup("port"); f != nil {
			if err := v.BindPFlag("server.port", f); err != nil {
				return nil, err
			}
		}
		if f := flags.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		Line: LineConfig{
			ChannelSecret:      v.GetString(channelSecret.key),
			ChannelAccessToken: v.GetString(channelAccessToken.key),
		},
		Completion: CompletionConfig{
			Provider:     strings.ToLower(v.GetString("completion.provider")),
			Model:        v.GetString("completion.model"),
			SystemPrompt: v.GetString("completion.system_prompt"),
			MaxTokens:    v.GetInt("completion.max_tokens"),
		},
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		FallbackMessage: v.GetString("chat.fallback_message"),
		LogLevel:        parseLogLevel(v.GetString("bot.log_level")),
	}

	required := []secret{channelSecret, channelAccessToken}
	switch cfg.Completion.Provider {
	case ProviderAnthropic:
		required = append(required, anthropicAPIKey)
		cfg.Completion.APIKey = v.GetString(anthropicAPIKey.key)
	case ProviderOpenRouter:
		required = append(required, openRouterAPIKey)
		cfg.Completion.APIKey = v.GetString(openRouterAPIKey.key)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Completion.Provider)
	}

	var missing []string
	for _, s := range required {
		if v.GetString(s.key) == "" {
			missing = append(missing, s.env)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingSecretsError{Names: missing}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("completion.provider", ProviderAnthropic)
	v.SetDefault("completion.model", domain.DefaultModel)
	v.SetDefault("completion.max_tokens", domain.DefaultMaxTokens)
	v.SetDefault("completion.system_prompt", domain.DefaultSystemPrompt)
	v.SetDefault("chat.fallback_message", domain.DefaultFallback)
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", domain.DefaultPort)
	v.SetDefault("bot.log_level", "info")
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config file: %w", err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("toml")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("could not read config file: %w", err)
	}

	return nil
}

func (c *Config) validate() error {
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("completion.max_tokens must be positive, got %d", c.Completion.MaxTokens)
	}
	if c.Completion.Model == "" {
		return errors.New("completion.model must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	return nil
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
