package qbreader

import "time"

// Config holds QBReader client configuration.
type Config struct {
	// BaseURL is the API root. Default: "https://www.qbreader.org/api".
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds a single HTTP call. Default: 5s.
	Timeout time.Duration `mapstructure:"timeout"`

	// RatePerSecond and Burst throttle outgoing calls to stay polite with
	// the public API.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`

	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://www.qbreader.org/api",
		Timeout:       5 * time.Second,
		RatePerSecond: 5,
		Burst:         10,
		UserAgent:     "thetaquiz",
	}
}
