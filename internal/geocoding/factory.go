package geocoding

import (
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRateLimit is the request ceiling of the geocode.maps.co free plan, per second.
const DefaultRateLimit = 1

// ErrMissingAPIKey is returned when the provider is configured without a key.
var ErrMissingAPIKey = errors.New("API key is required for geocode.maps.co provider")

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	APIKey    string        // API key sent with every request
	BaseURL   string        // Optional endpoint override
	Timeout   time.Duration // HTTP client timeout
	RateLimit int           // Rate limit for requests per second
	Logger    *slog.Logger  // Logger for the provider
}

// NewProvider creates the geocode.maps.co provider from the configuration,
// filling defaults for the timeout and the rate limit.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	if config.RateLimit <= 0 {
		config.RateLimit = DefaultRateLimit
		config.Logger.Debug("Rate limit for geocode API not set, set a default value", "value", config.RateLimit)
	}

	const defaultTimeout = 10 * time.Second
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit)
	provider := NewMapsCoProvider(config.APIKey, config.Timeout, limiter, config.Logger)
	if config.BaseURL != "" {
		provider.WithBaseURL(config.BaseURL)
	}

	return provider, nil
}
