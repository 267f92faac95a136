package config

import "time"

// Config is the root client configuration.
type Config struct {
	// Log configures the logger.
	Log LogConfig `mapstructure:"log"`

	// TickInterval is the worker loop interval. The default suits
	// production; tests shorten it.
	TickInterval time.Duration `mapstructure:"tick_interval"`

	// Handshake configures the handshake poller.
	Handshake HandshakeConfig `mapstructure:"handshake"`

	// Diagnostics configures the process stats sampler.
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`

	// Servers is the seed server list. Handshake responses are published
	// as events and do not update it.
	Servers []string `mapstructure:"servers"`
}

// LogConfig mirrors logger.Config in file/env-friendly form.
type LogConfig struct {
	Level     string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format    string `mapstructure:"format" validate:"omitempty,oneof=auto text json"`
	Output    string `mapstructure:"output"`
	AddSource bool   `mapstructure:"add_source"`
}

// HandshakeConfig configures the handshake poller.
type HandshakeConfig struct {
	// URL is the handshake endpoint.
	URL string `mapstructure:"url" validate:"omitempty,url"`

	// Interval between handshake fetches.
	Interval time.Duration `mapstructure:"interval"`

	// MaxTries bounds the per-fetch retry budget.
	MaxTries uint `mapstructure:"max_tries" validate:"omitempty,max=10"`

	// Timeout bounds one fetch, retries included.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DiagnosticsConfig configures the process stats sampler.
type DiagnosticsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Default returns a Config with package defaults applied.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
			Output: "stderr",
		},
		TickInterval: 100 * time.Millisecond,
		Handshake: HandshakeConfig{
			Interval: 5 * time.Minute,
			MaxTries: 3,
			Timeout:  45 * time.Second,
		},
		Diagnostics: DiagnosticsConfig{
			Enabled:  true,
			Interval: 10 * time.Second,
		},
	}
}
