package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	Store         string `env:"STORE"          envDefault:"postgres" validate:"oneof=postgres mongo"`
	DatabaseURL   string `env:"DATABASE_URL"                         validate:"required_if=Store postgres"`
	MongoURI      string `env:"MONGO_URI"                            validate:"required_if=Store mongo"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"artmarket"`

	RedisURL        string        `env:"REDIS_URL"`
	GeocodeCacheTTL time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h" validate:"min=0"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTL     time.Duration `env:"JWT_TTL"     envDefault:"24h" validate:"min=1m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"  validate:"min=4,max=31"`

	CloudinaryURL    string `env:"CLOUDINARY_URL"    validate:"required_if=Env production,required_if=Env staging"`
	CloudinaryFolder string `env:"CLOUDINARY_FOLDER" envDefault:"my_uploads"`
	MaxUploadBytes   int64  `env:"MAX_UPLOAD_BYTES"  envDefault:"10485760" validate:"min=1"`

	GeoapifyAPIKey  string        `env:"GEOAPIFY_API_KEY"  validate:"required_if=Env production,required_if=Env staging"`
	GeoapifyBaseURL string        `env:"GEOAPIFY_BASE_URL" envDefault:"https://api.geoapify.com" validate:"url"`
	GeoapifyMapsURL string        `env:"GEOAPIFY_MAPS_URL" envDefault:"https://maps.geoapify.com/v1/staticmap" validate:"url"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT"  envDefault:"10s"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	CORSOrigins    []string `env:"CORS_ORIGINS"      envDefault:"http://localhost:5173" envSeparator:","`
	AuthRatePerMin int      `env:"AUTH_RATE_PER_MIN" envDefault:"30" validate:"min=1"`
	AuthRateBurst  int      `env:"AUTH_RATE_BURST"   envDefault:"10" validate:"min=1"`
}

// Load reads the environment, after merging a .env file when one is present.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
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
