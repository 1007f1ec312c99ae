package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test in an empty directory so a stray config.toml can't leak in
func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	return dir
}

func setBaseEnv(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_DATABASE", "auth")
	t.Setenv("EMAIL_USER", "noreply@example.com")
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	setBaseEnv(t)

	c, err := Load(v.New())
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 8081, c.Port)
	assert.Equal(t, "http://localhost:3000", c.ClientURL)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, 3306, c.DB.Port)
	assert.Equal(t, "smtp", c.Mail.Driver)
	assert.Equal(t, "smtp.gmail.com", c.Mail.Host)
	assert.Equal(t, 587, c.Mail.Port)
	assert.Equal(t, "bcrypt", c.Hasher)
	assert.False(t, c.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.Cookie.SameSite)
}

func TestLoad_Env(t *testing.T) {
	chdirTemp(t)
	setBaseEnv(t)

	t.Setenv("PORT", "9000")
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("MAIL_DRIVER", "queue")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SECURITY_HASHER", "argon2id")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("COOKIE_SAME_SITE", "none")

	c, err := Load(v.New())
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Port)
	assert.Equal(t, "https://app.example.com", c.ClientURL)
	assert.Equal(t, DBConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		User:     "root",
		Password: "hunter2",
		Database: "auth",
		Path:     "database.db",
	}, c.DB)
	assert.Equal(t, "app-password", c.Mail.Password)
	assert.Equal(t, "queue", c.Mail.Driver)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, "argon2id", c.Hasher)
	assert.True(t, c.Cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.Cookie.SameSite)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	setBaseEnv(t)

	toml := `
[app]
log_level = "debug"

[db]
driver = "sqlite"
path = "auth.db"

[mail]
driver = "log"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))

	c, err := Load(v.New())
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "auth.db", c.DB.Path)
	assert.Equal(t, "log", c.Mail.Driver)
}

func TestLoad_MissingSecret(t *testing.T) {
	chdirTemp(t)
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(v.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"log level", map[string]string{"APP_LOG_LEVEL": "verbose"}},
		{"port", map[string]string{"PORT": "0"}},
		{"db driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"db name", map[string]string{"DB_DATABASE": ""}},
		{"mail driver", map[string]string{"MAIL_DRIVER": "pigeon"}},
		{"mail user", map[string]string{"EMAIL_USER": ""}},
		{"hasher", map[string]string{"SECURITY_HASHER": "md5"}},
		{"same site", map[string]string{"COOKIE_SAME_SITE": "sometimes"}},
		{"insecure none", map[string]string{"COOKIE_SAME_SITE": "none"}},
		{"shutdown timeout", map[string]string{"APP_SHUTDOWN_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			setBaseEnv(t)

			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			_, err := Load(v.New())
			assert.Error(t, err)
		})
	}
}

func TestLoad_LogMailerNeedsNoCredentials(t *testing.T) {
	chdirTemp(t)
	setBaseEnv(t)
	t.Setenv("EMAIL_USER", "")
	t.Setenv("MAIL_DRIVER", "log")

	_, err := Load(v.New())
	assert.NoError(t, err)
}
