package core

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	minSecretLength = 32
)

var errShortSecret = fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)

type (
	Config struct {
		AppName      string
		Env          string
		Build        string
		RollbarToken string
		UploadDir    string
		Server       ServerConfig
		Auth         AuthConfig
		Database     DatabaseConfig
		RateLimit    RateLimitConfig
		Redis        RedisConfig
	}

	ServerConfig struct {
		Host            string
		Port            string
		DebugHost       string
		FrontendURL     string
		ShutdownTimeout time.Duration
	}

	AuthConfig struct {
		Secret    string
		ExpiresIn time.Duration
	}

	DatabaseConfig struct {
		Engine     string // postgres | sqlite3
		URL        string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	RateLimitConfig struct {
		Max    int
		Window time.Duration
	}

	RedisConfig struct {
		Addr     string
		Password string
	}
)

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig reads the process configuration from the environment.
// config/.env.<ENV> is loaded first when present; real env vars always win.
func NewConfig() (*Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = EnvDevelopment
	}

	dotEnvPath := filepath.Join(getEnv("CONFIG_DIR", "config"), ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("APP_NAME", "EduCore")
	v.SetDefault("BUILD", "dev")
	v.SetDefault("HOST", "")
	v.SetDefault("PORT", "5000")
	v.SetDefault("DEBUG_HOST", "localhost:4000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", 8*time.Hour)
	v.SetDefault("RATE_LIMIT_MAX", 200)
	v.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("DB_ENGINE", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "educore")
	v.SetDefault("DB_DISABLE_TLS", env != EnvProduction)
	v.AutomaticEnv()

	conf := &Config{
		AppName:      v.GetString("APP_NAME"),
		Env:          env,
		Build:        v.GetString("BUILD"),
		RollbarToken: v.GetString("ROLLBAR_TOKEN"),
		UploadDir:    v.GetString("UPLOAD_DIR"),
		Server: ServerConfig{
			Host:            v.GetString("HOST"),
			Port:            v.GetString("PORT"),
			DebugHost:       v.GetString("DEBUG_HOST"),
			FrontendURL:     v.GetString("FRONTEND_URL"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Auth: AuthConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: v.GetDuration("JWT_EXPIRES_IN"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("DB_ENGINE"),
			URL:        v.GetString("DATABASE_URL"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			DisableTLS: v.GetBool("DB_DISABLE_TLS"),
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt("RATE_LIMIT_MAX"),
			Window: v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	if len(c.Auth.Secret) < minSecretLength {
		return errShortSecret
	}
	if c.Auth.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be a positive duration")
	}
	switch c.Database.Engine {
	case "postgres", "sqlite3":
	default:
		return errors.Errorf("unsupported DB_ENGINE %q", c.Database.Engine)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
