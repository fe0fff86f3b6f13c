package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// Values are read from app.env in the config path and overridden by
// environment variables of the same name.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisURL      string `mapstructure:"REDIS_URL"`

	GeocodeCacheTTL    time.Duration `mapstructure:"GEOCODE_CACHE_TTL"`
	GeocodeRegion      string        `mapstructure:"GEOCODE_REGION"`
	GeocodeConcurrency int           `mapstructure:"GEOCODE_CONCURRENCY"`
	GeocodeSeedPath    string        `mapstructure:"GEOCODE_SEED_PATH"`
	NominatimURL       string        `mapstructure:"NOMINATIM_URL"`
	NominatimUserAgent string        `mapstructure:"NOMINATIM_USER_AGENT"`

	LLMAPIKey   string `mapstructure:"LLM_API_KEY"`
	LLMBaseURL  string `mapstructure:"LLM_BASE_URL"`
	LLMModel    string `mapstructure:"LLM_MODEL"`
	DefaultCity string `mapstructure:"DEFAULT_CITY"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":       ":8080",
	"DATABASE_URL":         "",
	"REDIS_URL":            "",
	"GEOCODE_CACHE_TTL":    "720h",
	"GEOCODE_REGION":       "Brasil",
	"GEOCODE_CONCURRENCY":  4,
	"GEOCODE_SEED_PATH":    "",
	"NOMINATIM_URL":        "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT": "routeflow-service/1.0",
	"LLM_API_KEY":          "",
	"LLM_BASE_URL":         "https://api.groq.com/openai/v1",
	"LLM_MODEL":            "llama-3.3-70b-versatile",
	"DEFAULT_CITY":         "São Paulo, SP",
	"LOG_LEVEL":            "info",
	"LOG_PRETTY":           false,
}

// LoadConfig reads configuration from path/app.env or environment variables.
// A missing app.env is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about; defaults register them all.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("load config: read %s/app.env: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: decode: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed to serve free-text plan requests.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		errs = append(errs, errors.New("LLM_API_KEY is required"))
	}
	if c.GeocodeConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("GEOCODE_CONCURRENCY must be positive, got %d", c.GeocodeConcurrency))
	}
	if c.GeocodeCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("GEOCODE_CACHE_TTL must not be negative, got %s", c.GeocodeCacheTTL))
	}
	if strings.TrimSpace(c.NominatimUserAgent) == "" {
		errs = append(errs, errors.New("NOMINATIM_USER_AGENT is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
