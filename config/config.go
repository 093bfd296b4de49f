package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port    string `koanf:"port"`
	GinMode string `koanf:"gin_mode"`

	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBPort     string `koanf:"db_port"`
	DBSSLMode  string `koanf:"db_sslmode"`
	SQLitePath string `koanf:"sqlite_path"`

	JWTSecret string        `koanf:"jwt_secret"`
	JWTTTL    time.Duration `koanf:"jwt_ttl"`

	Timezone string `koanf:"app_timezone"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	CORSOrigins   []string `koanf:"cors_origins"`
	AuthRateLimit float64  `koanf:"auth_rate_limit"`
	AuthRateBurst int      `koanf:"auth_rate_burst"`

	AWSRegion string `koanf:"aws_region"`
	MailFrom  string `koanf:"mail_from"`
}

func Defaults() Config {
	return Config{
		Port:          "5000",
		GinMode:       "release",
		DBDriver:      "postgres",
		DBPort:        "5432",
		DBSSLMode:     "disable",
		SQLitePath:    "points.db",
		JWTTTL:        7 * 24 * time.Hour,
		Timezone:      "Local",
		LogLevel:      "info",
		LogFormat:     "json",
		CORSOrigins:   []string{"*"},
		AuthRateLimit: 5,
		AuthRateBurst: 10,
	}
}

// Load reads .env when present, then the process environment. Environment
// variable names map to koanf keys by lower-casing (JWT_SECRET -> jwt_secret).
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location is the zone whose midnight starts a record's day.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
		c.DBSSLMode,
	)
}
