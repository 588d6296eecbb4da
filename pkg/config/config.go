package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	// Embed the zone database so the booking timezone loads on slim images.
	_ "time/tzdata"
)

// Deployment constants for the bookable Cal.com event type.
const (
	EventTypeID   = "2576576"
	EventTypeSlug = "bland-painworth-law-initial-consultation"
	TimeZone      = "America/Edmonton"
	TimeZoneLabel = "Edmonton time"

	DefaultCalcomBaseURL = "https://api.cal.com/v2"
	DefaultPort          = "3000"
)

// Config holds all application configuration values.
// It is built once at start-up and never mutated afterwards.
type Config struct {
	CalcomAPIKey  string
	CalcomBaseURL string
	CalcomTimeout time.Duration

	EventTypeID   string
	EventTypeSlug string
	Location      *time.Location
	LocationLabel string

	Port                string
	Env                 string
	LogLevel            string
	PublicDir           string
	CORSAllowedOrigins  []string
	RateLimitPerMinute  int
	ServerReadTimeout   time.Duration
	ServerWriteTimeout  time.Duration
	ServerIdleTimeout   time.Duration
	ServerShutdownGrace time.Duration
}

// LoadConfig reads configuration from environment variables only.
func LoadConfig() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads an optional .env file, then reads the environment.
// A missing .env file is not an error.
func LoadWithFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return nil, fmt.Errorf("error loading timezone %s: %w", TimeZone, err)
	}

	env := &envParser{}
	cfg := &Config{
		CalcomAPIKey:  os.Getenv("CALCOM_API_KEY"),
		CalcomBaseURL: strings.TrimRight(getEnv("CALCOM_BASE_URL", DefaultCalcomBaseURL), "/"),
		CalcomTimeout: env.duration("CALCOM_TIMEOUT", 15*time.Second),

		EventTypeID:   EventTypeID,
		EventTypeSlug: EventTypeSlug,
		Location:      loc,
		LocationLabel: TimeZoneLabel,

		Port:                getEnv("PORT", DefaultPort),
		Env:                 getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		PublicDir:           getEnv("PUBLIC_DIR", "public"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMinute:  env.int("RATE_LIMIT_PER_MINUTE", 120),
		ServerReadTimeout:   env.duration("SERVER_READ_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:  env.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:   env.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		ServerShutdownGrace: env.duration("SERVER_SHUTDOWN_GRACE", 10*time.Second),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	if c.CalcomAPIKey == "" {
		return fmt.Errorf("CALCOM_API_KEY is required")
	}
	if c.CalcomBaseURL == "" {
		return fmt.Errorf("CALCOM_BASE_URL must not be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// envParser reads typed variables and remembers every value it could not
// parse, so a typo fails start-up instead of silently using the default.
type envParser struct {
	errs []error
}

func (p *envParser) int(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return fallback
	}
	return i
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
