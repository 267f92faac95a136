package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides: BURROW_HANDSHAKE_URL,
// BURROW_LOG_LEVEL, and so on.
const envPrefix = "BURROW"

// ErrNotLoaded is returned by Manager methods before a successful Load.
var ErrNotLoaded = errors.New("config: not loaded")

// Manager owns the viper instance behind the client configuration, and
// re-reads the file on change.
type Manager struct {
	v      *viper.Viper
	logger *slog.Logger

	mu       sync.RWMutex
	current  Config
	loaded   bool
	onChange []func(Config)
}

// NewManager creates a Manager. The logger records watch-reload problems.
func NewManager(logger *slog.Logger) *Manager {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Manager{
		v:      v,
		logger: logger.With(slog.String("component", "config.Manager")),
	}
}

// setDefaults registers every key with viper so environment overrides
// resolve even without a config file.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.add_source", d.Log.AddSource)
	v.SetDefault("tick_interval", d.TickInterval)
	v.SetDefault("handshake.url", d.Handshake.URL)
	v.SetDefault("handshake.interval", d.Handshake.Interval)
	v.SetDefault("handshake.max_tries", d.Handshake.MaxTries)
	v.SetDefault("handshake.timeout", d.Handshake.Timeout)
	v.SetDefault("diagnostics.enabled", d.Diagnostics.Enabled)
	v.SetDefault("diagnostics.interval", d.Diagnostics.Interval)
	v.SetDefault("servers", d.Servers)
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply. The loaded config is validated
// before it becomes current.
func (m *Manager) Load(path string) (Config, error) {
	if path != "" {
		m.v.SetConfigFile(path)
		if err := m.v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg, err := m.decode()
	if err != nil {
		return Config{}, err
	}

	m.mu.Lock()
	m.current = cfg
	m.loaded = true
	m.mu.Unlock()
	return cfg, nil
}

// decode unmarshals the viper state over the defaults and validates.
func (m *Manager) decode() (Config, error) {
	cfg := Default()
	err := m.v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Current returns the most recently loaded configuration.
func (m *Manager) Current() (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return Config{}, ErrNotLoaded
	}
	return m.current, nil
}

// OnChange registers a callback invoked with each successfully re-loaded
// configuration. Register before calling Watch.
func (m *Manager) OnChange(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Watch starts watching the config file for changes. A change that fails
// to decode or validate is logged and discarded; the previous config stays
// current. Requires a prior Load with a non-empty path.
func (m *Manager) Watch() error {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if !loaded {
		return ErrNotLoaded
	}

	m.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := m.decode()
		if err != nil {
			m.logger.Warn("ignoring config change",
				slog.String("file", e.Name),
				slog.Any("error", err),
			)
			return
		}

		m.mu.Lock()
		m.current = cfg
		callbacks := make([]func(Config), len(m.onChange))
		copy(callbacks, m.onChange)
		m.mu.Unlock()

		m.logger.Info("config reloaded", slog.String("file", e.Name))
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	m.v.WatchConfig()
	return nil
}
