package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Client defaults.
const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "warn"
)

// ClientOptions holds the configuration values for the CLI client.
type ClientOptions struct {
	// BaseURL is the backend root, e.g. https://localhost:8080.
	BaseURL string `json:"url"`
	// Timeout bounds each backend request.
	Timeout Duration `json:"timeout"`
	// MaxRPS limits outgoing requests; zero disables the limit.
	MaxRPS float64 `json:"rps"`
	// CAFile is an extra CA certificate to trust.
	CAFile string `json:"ca"`
	// LogLevel is a zap level name.
	LogLevel string `json:"log_level"`
}

// DefaultClientOptions returns the built-in client configuration.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseURL:  DefaultBaseURL,
		Timeout:  Duration(DefaultTimeout),
		LogLevel: DefaultLogLevel,
	}
}

// LoadClient starts from the defaults, applies the JSON file at path and then
// GOPHPASS_URL. Explicit command-line flags are applied by the caller.
func LoadClient(path string) (ClientOptions, error) {
	options := DefaultClientOptions()
	if err := readJSON(path, &options); err != nil {
		return ClientOptions{}, err
	}
	if baseURL := os.Getenv("GOPHPASS_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}
	return options, nil
}

// Duration is a time.Duration written as a Go duration string in JSON.
type Duration time.Duration

// UnmarshalJSON accepts "10s" style strings.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON writes the duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
