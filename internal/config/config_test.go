package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[server]
http_port = 9090
environment = "production"

[database]
host = "db"
port = 5433
user = "sport"
password = "secret"
dbname = "sporthub"

[auth]
jwt_secret = "jwt-secret"

[csrf]
enabled = true
hash_key = "0123456789abcdef0123456789abcdef"

[uploads]
dir = "/tmp/uploads"
parse_timeout = 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "sporthub", cfg.Database.DBName)
	assert.Equal(t, "/tmp/uploads", cfg.Uploads.Dir)
	assert.Equal(t, 5, cfg.Uploads.ParseTimeout)

	// значения по умолчанию сохраняются для незаданных ключей
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "csrf_token", cfg.CSRF.CookieName)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxFileSizeBytes)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DB_HOST", "override-host")
	t.Setenv("SERVER_HTTP_PORT", "7070")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "override-host", cfg.Database.Host)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, `
[database]
dbname = ""
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dbname is required")
	assert.Contains(t, err.Error(), "auth.jwt_secret is required")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", d.DSN())
}
