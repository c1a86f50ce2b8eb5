package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`       // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`         // Telegram API token loaded from environment
	HTTPAddr         string   `mapstructure:"http_addr"` // listen address of the ops server, empty disables it
	Telegram         Telegram `mapstructure:"telegram"`  // telegram delivery section
	OpenTDB          OpenTDB  `mapstructure:"opentdb"`   // trivia service section
	DB               DB       `mapstructure:"database"`  // database configuration section
	Redis            Redis    `mapstructure:"redis"`     // category cache section
	Cache            Cache    `mapstructure:"cache"`
	Session          Session  `mapstructure:"session"`
}

// Telegram contains bot delivery parameters.
type Telegram struct {
	Workers int  `mapstructure:"workers"` // concurrent update handlers
	Debug   bool `mapstructure:"debug"`   // verbose tgbotapi logging
}

// OpenTDB contains trivia service parameters.
type OpenTDB struct {
	BaseURL   string        `mapstructure:"base_url"`   // service root, endpoints are appended
	BatchSize int           `mapstructure:"batch_size"` // questions per round
	Timeout   time.Duration `mapstructure:"timeout"`    // per request timeout
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Enabled reports whether a database is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis contains cache connection parameters.
type Redis struct {
	Addr     string `mapstructure:"-"` // host:port loaded from environment, empty disables caching
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis server is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Cache contains cache lifetimes.
type Cache struct {
	CategoriesTTL time.Duration `mapstructure:"categories_ttl"`
}

// Session contains in-memory quiz session parameters.
type Session struct {
	IdleTTL time.Duration `mapstructure:"idle_ttl"` // sessions idle longer than this are evicted
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine, the process environment is used as is.
	_ = godotenv.Load()

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
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return build(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("telegram.workers", 8)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("opentdb.base_url", "https://opentdb.com")
	v.SetDefault("opentdb.batch_size", 10)
	v.SetDefault("opentdb.timeout", "10s")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.categories_ttl", "24h")
	v.SetDefault("session.idle_ttl", "2h")
}

func build(v *viper.Viper) (*Config, error) {
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

	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Addr = v.GetString("redis_addr")

	if cfg.OpenTDB.BatchSize <= 0 {
		return nil, fmt.Errorf("opentdb.batch_size must be positive, got %d", cfg.OpenTDB.BatchSize)
	}
	if cfg.Telegram.Workers <= 0 {
		cfg.Telegram.Workers = 1
	}

	return &cfg, nil
}
