package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidQuizSource           = errors.New("invalid quiz source")
)

// Quiz sources.
const (
	QuizSourceLocal   = "local"
	QuizSourceBackend = "backend"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"` // current application environment (local, dev, production etc)
	TelegramAPIToken string     `mapstructure:"-"`   // Telegram API token loaded from environment
	Data             Data       `mapstructure:"data"`
	DB               DB         `mapstructure:"database"`
	Backend          Backend    `mapstructure:"backend"`
	Location         Location   `mapstructure:"location"`
	Quiz             Quiz       `mapstructure:"quiz"`
	Transcript       Transcript `mapstructure:"transcript"`
	Bot              Bot        `mapstructure:"bot"`
	Health           Health     `mapstructure:"health"`
}

// Data points at optional knowledge base overrides. Empty paths use the embedded data.
type Data struct {
	HerbsPath     string `mapstructure:"herbs_path"`
	LocationsPath string `mapstructure:"locations_path"`
	QuizPath      string `mapstructure:"quiz_path"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Enabled reports whether a database is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// Backend configures the remedy and quiz service.
type Backend struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Breaker Breaker       `mapstructure:"breaker"`
}

// Breaker configures the backend circuit breaker.
type Breaker struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
	MinRequests      uint32        `mapstructure:"min_requests"`
}

// Location configures location answers.
type Location struct {
	Timeout         time.Duration `mapstructure:"timeout"`          // how long to wait for the user's position
	GeocoderURL     string        `mapstructure:"geocoder_url"`     // reverse geocoding endpoint
	GeocoderTimeout time.Duration `mapstructure:"geocoder_timeout"` // HTTP timeout of the geocoder
	SharedTTL       time.Duration `mapstructure:"shared_ttl"`       // how long a shared location stays valid
}

// Quiz configures quiz sessions.
type Quiz struct {
	Source           string        `mapstructure:"source"` // local or backend
	ExplanationDelay time.Duration `mapstructure:"explanation_delay"`
}

// Transcript configures chat history retention.
type Transcript struct {
	Retention     time.Duration `mapstructure:"retention"` // zero keeps history forever
	PruneSchedule string        `mapstructure:"prune_schedule"`
	HistoryLimit  int           `mapstructure:"history_limit"`
}

// Bot configures the Telegram delivery.
type Bot struct {
	UpdateTimeout int `mapstructure:"update_timeout"` // long polling timeout in seconds
	MaxConcurrent int `mapstructure:"max_concurrent"` // updates handled in parallel
	HerbsPageSize int `mapstructure:"herbs_page_size"`
}

// Health configures the health endpoint.
type Health struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from a .env file, config files and environment variables.
func Load() (*Config, error) {
	// Populate the environment from .env when present.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("backend.url", "BACKEND_URL")
	_ = v.BindEnv("quiz.source", "QUIZ_SOURCE")
	_ = v.BindEnv("health.addr", "HEALTH_ADDR")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// The database is optional, in-memory stores are used without it.
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("data.herbs_path", "")
	v.SetDefault("data.locations_path", "")
	v.SetDefault("data.quiz_path", "")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", "15s")
	v.SetDefault("backend.breaker.max_requests", 5)
	v.SetDefault("backend.breaker.interval", "30s")
	v.SetDefault("backend.breaker.timeout", "60s")
	v.SetDefault("backend.breaker.failure_threshold", 0.8)
	v.SetDefault("backend.breaker.min_requests", 5)

	v.SetDefault("location.timeout", "10s")
	v.SetDefault("location.geocoder_url", "https://api.bigdatacloud.net/data/reverse-geocode-client")
	v.SetDefault("location.geocoder_timeout", "5s")
	v.SetDefault("location.shared_ttl", "24h")

	v.SetDefault("quiz.source", QuizSourceLocal)
	v.SetDefault("quiz.explanation_delay", "3s")

	v.SetDefault("transcript.retention", "720h")
	v.SetDefault("transcript.prune_schedule", "0 3 * * *")
	v.SetDefault("transcript.history_limit", 20)

	v.SetDefault("bot.update_timeout", 60)
	v.SetDefault("bot.max_concurrent", 32)
	v.SetDefault("bot.herbs_page_size", 5)

	v.SetDefault("health.addr", ":8080")
}

func (c *Config) validate() error {
	switch c.Quiz.Source {
	case QuizSourceLocal:
	case QuizSourceBackend:
		if c.Backend.URL == "" {
			return fmt.Errorf("%w: %q requires backend.url", ErrInvalidQuizSource, c.Quiz.Source)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuizSource, c.Quiz.Source)
	}
	return nil
}
