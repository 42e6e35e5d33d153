package config

import "time"

type ServiceConfig struct {
	Name          string   `mapstructure:"name"`
	Environment   string   `mapstructure:"environment"`
	Version       string   `mapstructure:"version"`
	ClientURL     string   `mapstructure:"client_url"`
	DefaultRegion string   `mapstructure:"default_region"`
	AdminUserIDs  []string `mapstructure:"admin_user_ids"`
}

const (
	AuthProviderJWT      = "jwt"
	AuthProviderSupabase = "supabase"
)

// AuthConfig selects how bearer credentials are resolved.
type AuthConfig struct {
	Provider   string        `mapstructure:"provider"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	ProjectURL string        `mapstructure:"project_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}
