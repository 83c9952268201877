package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shard-legends/upgrade-planner-service/pkg/logger"
	"github.com/spf13/viper"
)

const envPrefix = "PLANNER_SVC"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	PlayerAPI PlayerAPIConfig `mapstructure:"player_api"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	InternalPort string        `mapstructure:"internal_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig contains database connection configuration.
// The database is only needed when reference tables are loaded from PostgreSQL.
type DatabaseConfig struct {
	URL               string        `mapstructure:"url"`
	MaxConnections    int           `mapstructure:"max_connections"`
	MaxIdleTime       time.Duration `mapstructure:"max_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	PingTimeout       time.Duration `mapstructure:"ping_timeout"`
}

// RedisConfig contains connection settings for the auth Redis database (JWT revocation)
type RedisConfig struct {
	AuthURL        string        `mapstructure:"auth_url"`
	MaxConnections int           `mapstructure:"max_connections"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	PublicKeyURL    string        `mapstructure:"public_key_url"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// PlayerAPIConfig contains settings of the public game API used to fetch player profiles
type PlayerAPIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Token     string        `mapstructure:"token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// PlannerConfig contains optimizer and reference table settings
type PlannerConfig struct {
	TablesSource       string `mapstructure:"tables_source"`
	TablesFile         string `mapstructure:"tables_file"`
	Strategy           string `mapstructure:"strategy"`
	SequentialUpgrades bool   `mapstructure:"sequential_upgrades"`
}

// TimeoutsConfig contains various timeout configurations
type TimeoutsConfig struct {
	HTTPMiddleware     time.Duration `mapstructure:"http_middleware"`
	JWTValidatorClient time.Duration `mapstructure:"jwt_validator_client"`
	GracefulShutdown   time.Duration `mapstructure:"graceful_shutdown"`
	DatabaseHealth     time.Duration `mapstructure:"database_health"`
	RedisHealth        time.Duration `mapstructure:"redis_health"`
}

// MetricsConfig contains metrics collection configuration
type MetricsConfig struct {
	UpdateInterval time.Duration `mapstructure:"update_interval"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/upgrade-planner-service")

	// Set environment variable prefix and key replacement
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal unless bound explicitly
	for _, key := range []string{
		"server.port",
		"server.internal_port",
		"database.url",
		"redis.auth_url",
		"auth.public_key_url",
		"player_api.token",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	// Try to read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// EnvName returns the environment variable that overrides the given configuration key
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	// Database defaults
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_idle_time", "5m")
	v.SetDefault("database.health_check_period", "1m")
	v.SetDefault("database.ping_timeout", "5s")

	// Redis defaults
	v.SetDefault("redis.max_connections", 10)
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.ping_timeout", "5s")

	// Auth defaults (no unsafe URL defaults)
	v.SetDefault("auth.cache_ttl", "1h")
	v.SetDefault("auth.refresh_interval", "24h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logger.FormatJSON)
	v.SetDefault("logging.output", "stdout")

	// Player API defaults (token must come from the environment)
	v.SetDefault("player_api.base_url", "https://api.clashroyale.com/v1")
	v.SetDefault("player_api.timeout", "10s")
	v.SetDefault("player_api.rate_limit", 10.0)
	v.SetDefault("player_api.burst", 5)

	// Planner defaults
	v.SetDefault("planner.tables_source", "file")
	v.SetDefault("planner.tables_file", "")
	v.SetDefault("planner.strategy", "greedy")
	v.SetDefault("planner.sequential_upgrades", false)

	// Timeout defaults
	v.SetDefault("timeouts.http_middleware", "60s")
	v.SetDefault("timeouts.jwt_validator_client", "10s")
	v.SetDefault("timeouts.graceful_shutdown", "30s")
	v.SetDefault("timeouts.database_health", "2s")
	v.SetDefault("timeouts.redis_health", "2s")

	// Metrics defaults
	v.SetDefault("metrics.update_interval", "10s")
}

// Validate validates the configuration and ensures required fields are present
func (c *Config) Validate() error {
	requiredFields := map[string]string{
		"server.port":          c.Server.Port,
		"server.internal_port": c.Server.InternalPort,
		"redis.auth_url":       c.Redis.AuthURL,
		"auth.public_key_url":  c.Auth.PublicKeyURL,
		"player_api.base_url":  c.PlayerAPI.BaseURL,
		"player_api.token":     c.PlayerAPI.Token,
	}

	switch c.Planner.TablesSource {
	case "file":
	case "database":
		requiredFields["database.url"] = c.Database.URL
	default:
		return fmt.Errorf("planner.tables_source must be 'file' or 'database', got %q", c.Planner.TablesSource)
	}

	for field, value := range requiredFields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("required configuration field '%s' is not set (use environment variable %s)", field, EnvName(field))
		}
	}

	if c.Server.Port == c.Server.InternalPort {
		return fmt.Errorf("server.port and server.internal_port must differ, both are %s", c.Server.Port)
	}

	// Validate timeout values are reasonable
	timeouts := map[string]time.Duration{
		"server.read_timeout":        c.Server.ReadTimeout,
		"server.write_timeout":       c.Server.WriteTimeout,
		"redis.ping_timeout":         c.Redis.PingTimeout,
		"player_api.timeout":         c.PlayerAPI.Timeout,
		"timeouts.graceful_shutdown": c.Timeouts.GracefulShutdown,
	}
	if c.Planner.TablesSource == "database" {
		timeouts["database.ping_timeout"] = c.Database.PingTimeout
	}

	for name, timeout := range timeouts {
		if timeout <= 0 {
			return fmt.Errorf("timeout '%s' must be positive, got %v", name, timeout)
		}
		if timeout > 10*time.Minute {
			return fmt.Errorf("timeout '%s' seems too large, got %v", name, timeout)
		}
	}

	// Validate numeric values
	if c.Database.MaxConnections <= 0 {
		return fmt.Errorf("database.max_connections must be positive, got %d", c.Database.MaxConnections)
	}
	if c.Redis.MaxConnections <= 0 {
		return fmt.Errorf("redis.max_connections must be positive, got %d", c.Redis.MaxConnections)
	}
	if c.Redis.MaxRetries < 0 {
		return fmt.Errorf("redis.max_retries cannot be negative, got %d", c.Redis.MaxRetries)
	}
	if c.PlayerAPI.RateLimit <= 0 {
		return fmt.Errorf("player_api.rate_limit must be positive, got %v", c.PlayerAPI.RateLimit)
	}
	if c.PlayerAPI.Burst <= 0 {
		return fmt.Errorf("player_api.burst must be positive, got %d", c.PlayerAPI.Burst)
	}
	if c.Planner.Strategy == "" {
		return fmt.Errorf("planner.strategy cannot be empty")
	}

	// Validate logging settings before the logger is built from them
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", logger.FormatJSON, logger.FormatConsole:
	default:
		return fmt.Errorf("logging.format must be '%s' or '%s', got %q", logger.FormatJSON, logger.FormatConsole, c.Logging.Format)
	}

	return nil
}
