package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	DB         DBConfig
	Session    SessionConfig
	Cognito    CognitoConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type SessionConfig struct {
	TTL            time.Duration
	CookieSecure   bool
	CookieSameSite string // lax, strict or none
}

func (s SessionConfig) SameSite() http.SameSite {
	switch strings.ToLower(s.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type CognitoConfig struct {
	Region          string
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	switch strings.ToLower(c.Session.CookieSameSite) {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("invalid COOKIE_SAMESITE %q: must be lax, strict or none", c.Session.CookieSameSite)
	}
	// Browsers drop SameSite=None cookies on insecure origins.
	if strings.EqualFold(c.Session.CookieSameSite, "none") && !c.Session.CookieSecure {
		return fmt.Errorf("COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
	}
	if c.Cognito.Region == "" {
		return fmt.Errorf("COGNITO_REGION is required")
	}
	if c.Cognito.UserPoolID == "" {
		return fmt.Errorf("COGNITO_USER_POOL_ID is required")
	}
	if c.Cognito.AppClientID == "" {
		return fmt.Errorf("COGNITO_APP_CLIENT_ID is required")
	}
	return nil
}

// Load reads configuration from the environment, falling back to local
// development defaults.
func Load() Config {
	v := viper.New()
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "todoboard")
	v.SetDefault("DB_PASSWORD", "todoboard")
	v.SetDefault("DB_NAME", "todoboard")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("COOKIE_SAMESITE", "lax")
	v.SetDefault("COGNITO_REGION", "")
	v.SetDefault("COGNITO_USER_POOL_ID", "")
	v.SetDefault("COGNITO_APP_CLIENT_ID", "")
	v.SetDefault("COGNITO_APP_CLIENT_SECRET", "")
	v.AutomaticEnv()

	return Config{
		ServerPort: v.GetString("SERVER_PORT"),
		AppEnv:     v.GetString("APP_ENV"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Session: SessionConfig{
			TTL:            v.GetDuration("SESSION_TTL"),
			CookieSecure:   v.GetBool("COOKIE_SECURE"),
			CookieSameSite: v.GetString("COOKIE_SAMESITE"),
		},
		Cognito: CognitoConfig{
			Region:          v.GetString("COGNITO_REGION"),
			UserPoolID:      v.GetString("COGNITO_USER_POOL_ID"),
			AppClientID:     v.GetString("COGNITO_APP_CLIENT_ID"),
			AppClientSecret: v.GetString("COGNITO_APP_CLIENT_SECRET"),
		},
	}
}
