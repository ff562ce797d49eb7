package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for a batch run.
// The API key is not part of it: it is read from the file named on the command line.
//
// Fields:
// - Env: The logging profile (local, development, production).
// - BaseURL: The geocode search endpoint.
// - Delay: The pause after every provider request.
// - Timeout: The HTTP client timeout for a single request.
// - MetricsPort: The port for the monitoring server, 0 disables it.
// - Progress: Whether to draw a progress spinner on a terminal.
// - Database: Optional PostgreSQL settings for mirroring records.
type Config struct {
	Env         string         // Env is the logging profile: local, development, production.
	BaseURL     string         // BaseURL is the geocode search endpoint.
	Delay       time.Duration  // Delay is the pause between provider requests.
	Timeout     time.Duration  // Timeout bounds a single provider request.
	MetricsPort int            // MetricsPort is the monitoring server port.
	Progress    bool           // Progress enables the stderr spinner.
	Database    PostgresConfig // Database holds the optional postgres configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// Enabled reports whether a database was configured.
func (pc PostgresConfig) Enabled() bool {
	return pc.Host != ""
}

// ErrEmptyAPIKey is returned when the key file holds nothing but whitespace.
var ErrEmptyAPIKey = errors.New("API key file is empty")

// MustLoad reads the configuration from the environment, after loading an optional .env file.
// It panics on malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix("GEOBATCH")
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "production")
	vpr.SetDefault("base_url", "https://geocode.maps.co/search")
	vpr.SetDefault("delay", "1.2s")
	vpr.SetDefault("timeout", "10s")
	vpr.SetDefault("metrics_port", 0)
	vpr.SetDefault("progress", false)

	delay, err := time.ParseDuration(vpr.GetString("delay"))
	if err != nil || delay < 0 {
		panic("failed to parse delay from configuration")
	}

	timeout, err := time.ParseDuration(vpr.GetString("timeout"))
	if err != nil || timeout <= 0 {
		panic("failed to parse timeout from configuration")
	}

	metricsPort, err := strconv.Atoi(vpr.GetString("metrics_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	return &Config{
		Env:         vpr.GetString("env"),
		BaseURL:     vpr.GetString("base_url"),
		Delay:       delay,
		Timeout:     timeout,
		MetricsPort: metricsPort,
		Progress:    vpr.GetBool("progress"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

// LoadAPIKey reads the provider API key from path, trimming surrounding whitespace.
func LoadAPIKey(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read API key file: %w", err)
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyAPIKey, path)
	}

	return key, nil
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
