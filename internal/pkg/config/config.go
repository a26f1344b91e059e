package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// ProviderConfig configures the external directions provider (OpenRouteService).
type ProviderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Profile        string `mapstructure:"profile"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GeocoderConfig configures the reverse-geocoding provider (Nominatim).
// UserAgent identifies us to the service; its usage policy requires one.
type GeocoderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	Zoom           int    `mapstructure:"zoom"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// PricingConfig holds the tariff used by the cost estimator.
type PricingConfig struct {
	FuelEfficiencyKmPerLiter float64 `mapstructure:"fuel_efficiency_km_per_liter"`
	FuelPricePerLiter        float64 `mapstructure:"fuel_price_per_liter"`
	TollRatePerKm            float64 `mapstructure:"toll_rate_per_km"`
	FallbackSpeedKmh         float64 `mapstructure:"fallback_speed_kmh"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName   string `mapstructure:"service_name"`
	CollectorAddr string `mapstructure:"collector_addr"`
	Enabled       bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("provider.base_url", "https://api.openrouteservice.org")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.profile", "driving-car")
	v.SetDefault("provider.timeout_seconds", 5)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "sairaj-travels-trip-api/1.0 (contact@sairajtravels.com)")
	v.SetDefault("geocoder.zoom", 18)
	v.SetDefault("geocoder.timeout_seconds", 3)
	v.SetDefault("pricing.fuel_efficiency_km_per_liter", 15.0)
	v.SetDefault("pricing.fuel_price_per_liter", 100.99)
	v.SetDefault("pricing.toll_rate_per_km", 2.0)
	v.SetDefault("pricing.fallback_speed_kmh", 60.0)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "travels")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "tripapi")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.collector_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRIPAPI_PROVIDER_API_KEY → provider.api_key
	v.SetEnvPrefix("TRIPAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Provider.BaseURL == "" {
		errs = append(errs, "provider.base_url is required")
	}
	if c.Provider.Profile == "" {
		errs = append(errs, "provider.profile is required")
	}
	if c.Provider.TimeoutSeconds <= 0 {
		errs = append(errs, "provider.timeout_seconds must be positive")
	}
	if c.Geocoder.BaseURL == "" {
		errs = append(errs, "geocoder.base_url is required")
	}
	if c.Geocoder.UserAgent == "" {
		errs = append(errs, "geocoder.user_agent is required (Nominatim usage policy)")
	}
	if c.Geocoder.TimeoutSeconds <= 0 {
		errs = append(errs, "geocoder.timeout_seconds must be positive")
	}
	if c.Pricing.FuelEfficiencyKmPerLiter <= 0 {
		errs = append(errs, "pricing.fuel_efficiency_km_per_liter must be positive")
	}
	if c.Pricing.FuelPricePerLiter < 0 {
		errs = append(errs, "pricing.fuel_price_per_liter must not be negative")
	}
	if c.Pricing.TollRatePerKm < 0 {
		errs = append(errs, "pricing.toll_rate_per_km must not be negative")
	}
	if c.Pricing.FallbackSpeedKmh <= 0 {
		errs = append(errs, "pricing.fallback_speed_kmh must be positive")
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
