// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath = pflag.String("config", ".", "Directory containing config.toml")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"mysql", "postgres", "sqlite"}
	validMailers   = []string{"smtp", "log", "queue"}
	validHashers   = []string{"bcrypt", "argon2id"}
	validSameSite  = []string{"lax", "strict", "none"}
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// Path is the sqlite database file
	Path string
}

type MailConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
}

type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
}

type Config struct {
	LogLevel        string
	Port            int
	ClientURL       string
	ShutdownTimeout time.Duration

	DB     DBConfig
	Mail   MailConfig
	Cookie CookieConfig

	JWTSecret string
	RedisAddr string
	Hasher    string
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses the command line flags and loads the configuration from
// config.toml and the environment. Function will return an error if something
// is critically wrong and the application can't run because of that.
func Setup() (*Config, error) {
	pflag.Parse()

	vp := v.New()
	vp.BindPFlags(pflag.CommandLine)
	vp.AddConfigPath(*configPath)

	return Load(vp)
}

// Load reads everything into vp and validates the result. The config file is
// optional, the environment alone is enough to run.
func Load(vp *v.Viper) (*Config, error) {
	vp.SetConfigName("config")
	vp.SetConfigType("toml")
	vp.AddConfigPath(".")

	//
	// ENVS
	//
	vp.BindEnv("app.log_level", "APP_LOG_LEVEL")
	vp.BindEnv("app.shutdown_timeout", "APP_SHUTDOWN_TIMEOUT")

	vp.BindEnv("host.port", "PORT")
	vp.BindEnv("host.client_url", "CLIENT_URL")

	vp.BindEnv("db.driver", "DB_DRIVER")
	vp.BindEnv("db.host", "DB_HOST")
	vp.BindEnv("db.port", "DB_PORT")
	vp.BindEnv("db.user", "DB_USER")
	vp.BindEnv("db.password", "DB_PASSWORD")
	vp.BindEnv("db.database", "DB_DATABASE")
	vp.BindEnv("db.path", "DB_PATH")

	vp.BindEnv("jwt.secret", "JWT_SECRET")

	vp.BindEnv("mail.driver", "MAIL_DRIVER")
	vp.BindEnv("mail.host", "MAIL_HOST")
	vp.BindEnv("mail.port", "MAIL_PORT")
	vp.BindEnv("mail.user", "EMAIL_USER")
	vp.BindEnv("mail.password", "EMAIL_PASS")

	vp.BindEnv("redis.addr", "REDIS_ADDR")

	vp.BindEnv("security.hasher", "SECURITY_HASHER")

	vp.BindEnv("cookie.secure", "COOKIE_SECURE")
	vp.BindEnv("cookie.same_site", "COOKIE_SAME_SITE")

	//
	// Defaults
	//
	vp.SetDefault("app.log_level", "info")
	vp.SetDefault("app.shutdown_timeout", "10s")

	vp.SetDefault("host.port", 8081)
	vp.SetDefault("host.client_url", "http://localhost:3000")

	vp.SetDefault("db.driver", "mysql")
	vp.SetDefault("db.host", "localhost")
	vp.SetDefault("db.port", 3306)
	vp.SetDefault("db.path", "database.db")

	vp.SetDefault("mail.driver", "smtp")
	vp.SetDefault("mail.host", "smtp.gmail.com")
	vp.SetDefault("mail.port", 587)

	vp.SetDefault("redis.addr", "localhost:6379")

	vp.SetDefault("security.hasher", "bcrypt")

	vp.SetDefault("cookie.secure", false)
	vp.SetDefault("cookie.same_site", "lax")

	if err := vp.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	c := &Config{
		LogLevel:        vp.GetString("app.log_level"),
		ShutdownTimeout: vp.GetDuration("app.shutdown_timeout"),
		Port:            vp.GetInt("host.port"),
		ClientURL:       strings.TrimSpace(vp.GetString("host.client_url")),
		DB: DBConfig{
			Driver:   strings.ToLower(vp.GetString("db.driver")),
			Host:     vp.GetString("db.host"),
			Port:     vp.GetInt("db.port"),
			User:     vp.GetString("db.user"),
			Password: vp.GetString("db.password"),
			Database: vp.GetString("db.database"),
			Path:     vp.GetString("db.path"),
		},
		Mail: MailConfig{
			Driver:   strings.ToLower(vp.GetString("mail.driver")),
			Host:     vp.GetString("mail.host"),
			Port:     vp.GetInt("mail.port"),
			User:     vp.GetString("mail.user"),
			Password: vp.GetString("mail.password"),
		},
		Cookie: CookieConfig{
			Secure: vp.GetBool("cookie.secure"),
		},
		JWTSecret: vp.GetString("jwt.secret"),
		RedisAddr: vp.GetString("redis.addr"),
		Hasher:    strings.ToLower(vp.GetString("security.hasher")),
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		return nil, errors.New("invalid log level provided")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return nil, errors.New("invalid port provided")
	}

	if c.ShutdownTimeout <= 0 {
		return nil, errors.New("app.shutdown_timeout must be bigger than 0")
	}

	if c.ClientURL == "" {
		return nil, errors.New("no client url provided")
	}

	if c.JWTSecret == "" {
		return nil, fmt.Errorf("no JWT secret provided. Set JWT_SECRET or jwt.secret in config.toml, for example:\n\n%s", genSecret())
	}

	if !slices.Contains(validDrivers, c.DB.Driver) {
		return nil, errors.New("invalid database driver provided")
	}

	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			return nil, errors.New("no sqlite database path provided")
		}
	default:
		if c.DB.Database == "" {
			return nil, errors.New("no database name provided")
		}

		if c.DB.User == "" {
			return nil, errors.New("no database user provided")
		}
	}

	if !slices.Contains(validMailers, c.Mail.Driver) {
		return nil, errors.New("invalid mail driver provided")
	}

	if c.Mail.Driver != "log" {
		if c.Mail.Host == "" || c.Mail.Port <= 0 {
			return nil, errors.New("invalid mail host or port provided")
		}

		if c.Mail.User == "" {
			return nil, errors.New("no email user provided")
		}
	}

	if c.Mail.Driver == "queue" && c.RedisAddr == "" {
		return nil, errors.New("no redis address provided for the mail queue")
	}

	if !slices.Contains(validHashers, c.Hasher) {
		return nil, errors.New("invalid password hasher provided")
	}

	sameSite := strings.ToLower(vp.GetString("cookie.same_site"))
	if !slices.Contains(validSameSite, sameSite) {
		return nil, errors.New("invalid cookie same site mode provided")
	}

	switch sameSite {
	case "strict":
		c.Cookie.SameSite = http.SameSiteStrictMode
	case "none":
		// browsers drop SameSite=None cookies without Secure
		if !c.Cookie.Secure {
			return nil, errors.New("cookie.same_site none requires cookie.secure")
		}

		c.Cookie.SameSite = http.SameSiteNoneMode
	default:
		c.Cookie.SameSite = http.SameSiteLaxMode
	}

	return c, nil
}
