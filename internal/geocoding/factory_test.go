package geocoding_test

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/geobatch/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			APIKey:    "test-api-key",
			RateLimit: 1,
			Logger:    logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		_, ok := provider.(*geocoding.MapsCoProvider)
		assert.True(t, ok, "expected provider to be *MapsCoProvider")
	})

	t.Run("create provider without API key fails", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			APIKey: "", // Empty API key
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.ErrorIs(t, err, geocoding.ErrMissingAPIKey)
	})

	t.Run("create provider with defaults", func(t *testing.T) {
		config := geocoding.ProviderConfig{APIKey: "test-api-key"}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("base URL override reaches the server", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "/search", req.URL.Path)
			assert.Equal(t, "Springfield", req.URL.Query().Get("q"))
			assert.Equal(t, "test-api-key", req.URL.Query().Get("api_key"))
			writer.Header().Set("Content-Type", "application/json")
			fmt.Fprint(writer, `[{"place_id":1,"licence":"l","lat":"39.8","lon":"-89.6",`+
				`"display_name":"Springfield","class":"place","type":"city","importance":0.6}]`)
		}))
		defer server.Close()

		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			APIKey:  "test-api-key",
			BaseURL: server.URL + "/search",
			Timeout: time.Second,
			Logger:  logger,
		})
		require.NoError(t, err)

		matches, err := provider.Search(t.Context(), "Springfield")

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "39.8", matches[0].Lat)
		assert.Equal(t, "-89.6", matches[0].Lon)
	})
}
