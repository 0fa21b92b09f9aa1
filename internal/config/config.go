package config

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// DSN returns a postgres URL with every component escaped.
func (c DBConfig) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return dsn.String()
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	TokenTTL        time.Duration
	BcryptCost      int
	HashConcurrency int
}

type Config struct {
	Env             string
	Port            string
	ClientOrigin    string
	StoreDriver     string
	DefaultLimit    int
	MaxLimit        int
	MaxDepth        int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Auth            AuthConfig
	DB              DBConfig
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env (if present), then the app.yaml config from the working
// directory, and overlays secrets from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName("app")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read yaml config: %w", err)
		}
	}

	return FromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("app.port", "8080")
	v.SetDefault("client.origin", "*")
	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("store.max-conns", 10)
	v.SetDefault("pagination.default-limit", 5)
	v.SetDefault("pagination.max-limit", 100)
	v.SetDefault("comments.max-depth", 10)
	v.SetDefault("server.read-timeout", 10*time.Second)
	v.SetDefault("server.write-timeout", 10*time.Second)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	v.SetDefault("auth.issuer", "social-service")
	v.SetDefault("auth.token-ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt-cost", 10)
	v.SetDefault("auth.hash-concurrency", 0)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:             v.GetString("app.env"),
		Port:            v.GetString("app.port"),
		ClientOrigin:    v.GetString("client.origin"),
		StoreDriver:     v.GetString("store.driver"),
		DefaultLimit:    v.GetInt("pagination.default-limit"),
		MaxLimit:        v.GetInt("pagination.max-limit"),
		MaxDepth:        v.GetInt("comments.max-depth"),
		ReadTimeout:     v.GetDuration("server.read-timeout"),
		WriteTimeout:    v.GetDuration("server.write-timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown-timeout"),
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			JWTIssuer:       v.GetString("auth.issuer"),
			TokenTTL:        v.GetDuration("auth.token-ttl"),
			BcryptCost:      v.GetInt("auth.bcrypt-cost"),
			HashConcurrency: v.GetInt("auth.hash-concurrency"),
		},
		DB: DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			MaxConns: v.GetInt32("store.max-conns"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.DefaultLimit <= 0 || c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("invalid pagination limits: default %d, max %d", c.DefaultLimit, c.MaxLimit)
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.Port == "" {
		c.DB.Port = "5432"
	}

	return nil
}
