package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is everything the server reads from the environment.
type Settings struct {
	AppEnv string `mapstructure:"APP_ENV"`
	Port   string `mapstructure:"PORT"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	MySQLURL    string `mapstructure:"MYSQL_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPass      string `mapstructure:"DB_PASS"`
	DBName      string `mapstructure:"DB_NAME"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	DBSeed      bool   `mapstructure:"DB_SEED"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTIssuer string        `mapstructure:"JWT_ISSUER"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int           `mapstructure:"REDIS_DB"`
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]any{
	"APP_ENV":         "production",
	"PORT":            "8080",
	"DB_DRIVER":       "mysql",
	"DATABASE_URL":    "",
	"MYSQL_URL":       "",
	"DB_HOST":         "127.0.0.1",
	"DB_PORT":         "3306",
	"DB_USER":         "root",
	"DB_PASS":         "",
	"DB_NAME":         "homestay_db",
	"SQLITE_PATH":     "homestay.db",
	"DB_SEED":         false,
	"JWT_SECRET":      "",
	"JWT_ISSUER":      "homestay-backend",
	"JWT_TTL":         "24h",
	"REDIS_ADDR":      "",
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,
	"IDEMPOTENCY_TTL": "10m",
	"CORS_ORIGINS":    "",
}

// Load reads .env (optional) and the process environment.
func Load() (*Settings, error) {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to bind settings: %w", err)
	}
	s.DBDriver = strings.ToLower(strings.TrimSpace(s.DBDriver))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if strings.TrimSpace(s.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	switch s.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", s.DBDriver)
	}
	return nil
}

func (s *Settings) IsDevelopment() bool {
	return strings.EqualFold(s.AppEnv, "development")
}

// SeedEnabled reports whether demo data may be written. Seeding is refused
// outside development even when DB_SEED is set.
func (s *Settings) SeedEnabled() bool {
	return s.DBSeed && s.IsDevelopment()
}

// CORSOriginList splits CORS_ORIGINS; empty means any origin.
func (s *Settings) CORSOriginList() []string {
	raw := strings.TrimSpace(s.CORSOrigins)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
