package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted in lookup chains
const (
	ProviderOpenFoodFacts = "openfoodfacts"
	ProviderUSDA          = "usda"
	ProviderNutritionix   = "nutritionix"
)

// nameCapable lists the providers that support free-text search
var nameCapable = map[string]bool{
	ProviderUSDA: true,
}

var knownProviders = map[string]bool{
	ProviderOpenFoodFacts: true,
	ProviderUSDA:          true,
	ProviderNutritionix:   true,
}

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	HTTP          HTTPConfig
	OpenFoodFacts OpenFoodFactsConfig
	USDA          USDAConfig
	Nutritionix   NutritionixConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
	Lookup        LookupConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// HTTPConfig holds outbound HTTP client settings shared by all providers
type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// USDAConfig holds USDA API configuration
type USDAConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	PageSize int    `mapstructure:"page_size"`
}

// NutritionixConfig holds Nutritionix API configuration
type NutritionixConfig struct {
	AppID   string `mapstructure:"app_id"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory", "lru" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
	Size int           `mapstructure:"size"` // lru only
}

// RateLimitConfig holds per-provider request budgets, in requests per hour
type RateLimitConfig struct {
	OpenFoodFacts int `mapstructure:"openfoodfacts"`
	USDA          int `mapstructure:"usda"`
	Nutritionix   int `mapstructure:"nutritionix"`
}

// LookupConfig holds the ordered provider chains
type LookupConfig struct {
	BarcodeProviders []string `mapstructure:"barcode_providers"`
	NameProviders    []string `mapstructure:"name_providers"`
}

// Uses reports whether provider appears in either chain
func (c *Config) Uses(provider string) bool {
	for _, p := range c.Lookup.BarcodeProviders {
		if p == provider {
			return true
		}
	}
	for _, p := range c.Lookup.NameProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/productscan/")

	// PRODUCTSCAN_USDA_API_KEY -> usda.api_key
	v.SetEnvPrefix("PRODUCTSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default
// (even an empty one) so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Outbound HTTP defaults
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.max_attempts", 3)
	v.SetDefault("http.user_agent", "productscan/1.0")

	// Provider defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.page_size", 10)
	v.SetDefault("nutritionix.app_id", "")
	v.SetDefault("nutritionix.api_key", "")
	v.SetDefault("nutritionix.base_url", "https://trackapi.nutritionix.com")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.size", 1024)

	// Rate limit defaults (requests per hour)
	v.SetDefault("ratelimit.openfoodfacts", 6000)
	v.SetDefault("ratelimit.usda", 1000)
	v.SetDefault("ratelimit.nutritionix", 500)

	// Fallback chains
	v.SetDefault("lookup.barcode_providers", []string{ProviderOpenFoodFacts, ProviderUSDA, ProviderNutritionix})
	v.SetDefault("lookup.name_providers", []string{ProviderUSDA})
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Cache.Type {
	case "memory", "none":
	case "lru":
		if config.Cache.Size <= 0 {
			return fmt.Errorf("cache size must be positive for lru cache, got: %d", config.Cache.Size)
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'lru' or 'none', got: %s", config.Cache.Type)
	}

	if config.HTTP.MaxAttempts < 1 {
		return fmt.Errorf("http max_attempts must be at least 1, got: %d", config.HTTP.MaxAttempts)
	}

	if len(config.Lookup.BarcodeProviders) == 0 {
		return fmt.Errorf("lookup.barcode_providers must name at least one provider")
	}
	if len(config.Lookup.NameProviders) == 0 {
		return fmt.Errorf("lookup.name_providers must name at least one provider")
	}
	for _, p := range config.Lookup.BarcodeProviders {
		if !knownProviders[p] {
			return fmt.Errorf("unknown barcode provider: %q", p)
		}
	}
	for _, p := range config.Lookup.NameProviders {
		if !knownProviders[p] {
			return fmt.Errorf("unknown name provider: %q", p)
		}
		if !nameCapable[p] {
			return fmt.Errorf("provider %q cannot search by name", p)
		}
	}

	if config.Uses(ProviderUSDA) && config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set PRODUCTSCAN_USDA_API_KEY)")
	}
	if config.Uses(ProviderNutritionix) && (config.Nutritionix.AppID == "" || config.Nutritionix.APIKey == "") {
		return fmt.Errorf("Nutritionix app id and key are required (set PRODUCTSCAN_NUTRITIONIX_APP_ID and PRODUCTSCAN_NUTRITIONIX_API_KEY)")
	}

	return nil
}
