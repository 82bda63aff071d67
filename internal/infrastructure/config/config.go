package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	S3        S3Config
	Cookie    CookieConfig
	RateLimit RateLimitConfig
}

type JWTConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=viewtube"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type S3Config struct {
	Region   string `env:"S3_REGION,   default=us-east-1"`
	Bucket   string `env:"S3_BUCKET,   default=viewtube-media"`
	Endpoint string `env:"S3_ENDPOINT"`
}

// CookieConfig is the shared policy applied to both auth cookies.
type CookieConfig struct {
	Domain   string `env:"COOKIE_DOMAIN"`
	Path     string `env:"COOKIE_PATH,      default=/"`
	Secure   bool   `env:"COOKIE_SECURE,    default=true"`
	SameSite string `env:"COOKIE_SAMESITE,  default=lax"`
}

type RateLimitConfig struct {
	LoginAttempts int           `env:"LOGIN_RATE_LIMIT,  default=10"`
	LoginWindow   time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
