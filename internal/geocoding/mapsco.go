package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/geobatch/internal/models"
	"golang.org/x/time/rate"
)

// MapsCoBaseURL -- geocode.maps.co search endpoint.
const MapsCoBaseURL = "https://geocode.maps.co/search"

// MapsCoProvider implements the Provider interface using the geocode.maps.co API.
// The free plan allows one request per second.
type MapsCoProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the search API
	apiKey  string        // API key sent as the api_key parameter
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Ceiling on outbound request rate
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Errors returned by Search. They are wrapped with the query and, where
// available, the underlying cause.
var (
	ErrRequestFailed    = errors.New("geocode request failed")
	ErrReadBody         = errors.New("failed to read geocode response body")
	ErrEmptyBody        = errors.New("empty geocode response")
	ErrUnexpectedStatus = errors.New("geocode API returned unexpected status")
	ErrDecode           = errors.New("failed to decode geocode response")
)

// NewMapsCoProvider creates a geocode.maps.co provider with a default HTTP client.
func NewMapsCoProvider(apiKey string, timeout time.Duration, limiter *rate.Limiter, log *slog.Logger) *MapsCoProvider {
	return NewMapsCoProviderWithClient(&http.Client{Timeout: timeout}, apiKey, limiter, log)
}

// NewMapsCoProviderWithClient creates a provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewMapsCoProviderWithClient(
	client HTTPClient,
	apiKey string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *MapsCoProvider {
	return &MapsCoProvider{
		client:  client,
		baseURL: MapsCoBaseURL,
		apiKey:  apiKey,
		log:     log,
		limiter: limiter,
	}
}

// WithBaseURL points the provider at another endpoint, e.g. a local stub.
func (mp *MapsCoProvider) WithBaseURL(baseURL string) *MapsCoProvider {
	mp.baseURL = baseURL
	return mp
}

// Search issues a single GET request for query and decodes every returned location.
// An empty query is sent as-is. Zero matches is a successful, empty result;
// an empty body is an error.
func (mp *MapsCoProvider) Search(ctx context.Context, query string) ([]models.GeoMatch, error) {
	if err := mp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL, err := url.Parse(mp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("api_key", mp.apiKey)
	reqURL.RawQuery = params.Encode()

	mp.log.DebugContext(ctx, "Geocode request", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := mp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %w", ErrRequestFailed, query, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %w", ErrReadBody, query, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		mp.log.DebugContext(ctx, "Geocode API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w %d for %q: %s", ErrUnexpectedStatus, resp.StatusCode, query, string(body))
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w for address %q", ErrEmptyBody, query)
	}

	mp.log.DebugContext(ctx, "Geocode raw response", "body", string(body))

	var matches []models.GeoMatch
	if err = json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("%w for %q: %w\n...from response: %s", ErrDecode, query, err, string(body))
	}

	return matches, nil
}
