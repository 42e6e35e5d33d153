package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
service:
  name: safephone-registry
  admin_user_ids: ["admin-1"]
server:
  http:
    port: 9090
database:
  driver: memory
auth:
  provider: jwt
  jwt_secret: from-file
redis:
  verification_ttl: 2m
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("REGISTRY_AUTH_JWT_SECRET", "from-env")
	t.Setenv("REGISTRY_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.HTTP.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.Redis.VerificationTTL)
	assert.Equal(t, []string{"admin-1"}, cfg.Service.AdminUserIDs)
	assert.Equal(t, "NG", cfg.Service.DefaultRegion)
}

func TestLoadConfig_RejectsIncompleteAuth(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
auth:
  provider: supabase
  project_url: https://example.supabase.co
`))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "auth.api_key")
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{
		Auth:     AuthConfig{Provider: AuthProviderJWT, JWTSecret: "secret"},
		Database: DatabaseConfig{Driver: "sqlite"},
	}
	assert.ErrorContains(t, cfg.Validate(), "database.driver")

	cfg.Database.Driver = DriverPostgres
	assert.NoError(t, cfg.Validate())

	cfg.Auth.Provider = "ldap"
	assert.ErrorContains(t, cfg.Validate(), "auth.provider")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "pw", Name: "safephone", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=safephone sslmode=require", c.DSN())
}
