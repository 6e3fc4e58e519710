package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all Jikan requests.
const DefaultUserAgent = "AnimeVerse/1.0 (+https://github.com/animeverse/animeverse)"

// DefaultJikanBaseURL is the public Jikan v4 endpoint.
const DefaultJikanBaseURL = "https://api.jikan.moe/v4"

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	JikanBaseURL          string `mapstructure:"jikan_base_url"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Retry                 struct {
		MaxAttempts int    `mapstructure:"max_attempts"` // Counts the first request: 4 means up to three retries
		Delay       string `mapstructure:"delay"` // Go duration string, fixed backoff between 429 retries
	} `mapstructure:"retry"`
	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel string `mapstructure:"log_level"`
	Storage  struct {
		Provider      string `mapstructure:"provider"` // "memory" or "redis"
		Size          int    `mapstructure:"size"`     // Maximum number of keys kept by the memory provider
		TTL           string `mapstructure:"ttl"`      // Go duration string, empty means keys never expire
		RedisAddress  string `mapstructure:"redis_address"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"storage"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	SentryDSN string `mapstructure:"sentry_dsn"`
	Carousel  struct {
		Slides   int    `mapstructure:"slides"`
		Interval string `mapstructure:"interval"`
	} `mapstructure:"carousel"`
	Search struct {
		Debounce string `mapstructure:"debounce"`
	} `mapstructure:"search"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("jikan_base_url", DefaultJikanBaseURL)
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("retry.max_attempts", 4)
	viper.SetDefault("retry.delay", "1300ms")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "localhost")
	viper.SetDefault("storage.provider", "memory")
	viper.SetDefault("storage.size", 10000)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("carousel.slides", 15)
	viper.SetDefault("carousel.interval", "4500ms")
	viper.SetDefault("search.debounce", "350ms")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// Duration parses a Go duration string, falling back to def (with a warning)
// when the value is empty or invalid.
func Duration(field, value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("field", field).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}
