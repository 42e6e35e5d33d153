package config

import (
	"fmt"

	"github.com/smartrogo/safephoneng/pkg/config"
	"github.com/smartrogo/safephoneng/pkg/logger"
)

// ServiceName names the config file (configs/<env>/registry.yaml) and the
// environment variable prefix (REGISTRY_).
const ServiceName = "registry"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      logger.Config  `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LoadConfig reads .env, the registry YAML file and REGISTRY_* overrides.
func LoadConfig() (*Config, error) {
	loaded, err := config.Load(ServiceName, config.Options{
		Defaults: defaults(),
		EnvFiles: []string{".env"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := loaded.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Auth.Provider {
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required for the jwt provider")
		}
	case AuthProviderSupabase:
		if c.Auth.ProjectURL == "" || c.Auth.APIKey == "" {
			return fmt.Errorf("auth.project_url and auth.api_key are required for the supabase provider")
		}
	default:
		return fmt.Errorf("unknown auth.provider %q", c.Auth.Provider)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":           "safephone-registry",
		"service.environment":    "development",
		"service.version":        "dev",
		"service.client_url":     "http://localhost:3000",
		"service.default_region": "NG",
		"service.admin_user_ids": []string{},

		"server.http.host":             "0.0.0.0",
		"server.http.port":             8080,
		"server.http.read_timeout":     "15s",
		"server.http.write_timeout":    "15s",
		"server.http.shutdown_timeout": "10s",

		"database.driver":             DriverPostgres,
		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "safephone",
		"database.user":               "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.slow_threshold":     "200ms",
		"database.auto_migrate":       true,

		"redis.enabled":          false,
		"redis.host":             "localhost",
		"redis.port":             6379,
		"redis.password":         "",
		"redis.db":               0,
		"redis.verification_ttl": "5m",
		"redis.events_channel":   "safephone.events",

		"auth.provider":    AuthProviderJWT,
		"auth.jwt_secret":  "",
		"auth.project_url": "",
		"auth.api_key":     "",
		"auth.timeout":     "5s",

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "",
		"log.development": false,

		"metrics.enabled":   true,
		"metrics.namespace": "safephone",
		"metrics.path":      "/metrics",
	}
}
