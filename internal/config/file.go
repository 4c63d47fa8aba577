package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRequestTimeout   = 30 * time.Second
	DefaultHierarchyTimeout = 10 * time.Second
	DefaultWeatherTimeout   = 10 * time.Second
	DefaultWeatherStale     = 5 * time.Minute
	DefaultMaxChatSessions  = 100
)

var (
	configPathOverride string
	configPathMu       sync.RWMutex
)

// SetConfigPath overrides the config file location (CLI flag or env var).
func SetConfigPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	configPathMu.Lock()
	configPathOverride = abs
	configPathMu.Unlock()
	return nil
}

func ConfigDir() (string, error) {
	configPathMu.RLock()
	override := configPathOverride
	configPathMu.RUnlock()
	if override != "" {
		return filepath.Dir(override), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "dongne"), nil
}

func ConfigPath() (string, error) {
	configPathMu.RLock()
	override := configPathOverride
	configPathMu.RUnlock()
	if override != "" {
		return override, nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

type TimeoutConfig struct {
	Request   Duration `yaml:"request,omitempty"`
	Hierarchy Duration `yaml:"hierarchy,omitempty"`
	Weather   Duration `yaml:"weather,omitempty"`
}

type WeatherConfig struct {
	Stale Duration `yaml:"stale,omitempty"`
}

type ChatConfig struct {
	MaxSessions  int  `yaml:"max_sessions,omitempty"`
	SaveSessions bool `yaml:"save_sessions"`
}

type FileConfig struct {
	mu       sync.RWMutex  `yaml:"-"`
	Timeouts TimeoutConfig `yaml:"timeouts,omitempty"`
	Weather  WeatherConfig `yaml:"weather,omitempty"`
	Chat     ChatConfig    `yaml:"chat,omitempty"`
}

// Duration wraps time.Duration for YAML marshal/unmarshal as string (e.g., "5s", "30s")
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Timeouts: TimeoutConfig{
			Request:   Duration(DefaultRequestTimeout),
			Hierarchy: Duration(DefaultHierarchyTimeout),
			Weather:   Duration(DefaultWeatherTimeout),
		},
		Weather: WeatherConfig{
			Stale: Duration(DefaultWeatherStale),
		},
		Chat: ChatConfig{
			MaxSessions:  DefaultMaxChatSessions,
			SaveSessions: true,
		},
	}
}

var (
	fileConfig     *FileConfig
	fileConfigOnce sync.Once
)

func File() *FileConfig {
	fileConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = DefaultFileConfig()
		}
		fileConfig = cfg
	})
	return fileConfig
}

func Load() (*FileConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultFileConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultFileConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *FileConfig) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	snapshot := withRLock(&c.mu, func() FileConfig {
		return FileConfig{
			Timeouts: c.Timeouts,
			Weather:  c.Weather,
			Chat:     c.Chat,
		}
	})

	data, err := yaml.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write: write to temp file, then rename
	tmpFile, err := os.CreateTemp(dir, ".config.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename config file: %w", err)
	}

	return nil
}

func (c *FileConfig) applyDefaults() {
	if c.Timeouts.Request <= 0 {
		c.Timeouts.Request = Duration(DefaultRequestTimeout)
	}
	if c.Timeouts.Hierarchy <= 0 {
		c.Timeouts.Hierarchy = Duration(DefaultHierarchyTimeout)
	}
	if c.Timeouts.Weather <= 0 {
		c.Timeouts.Weather = Duration(DefaultWeatherTimeout)
	}
	if c.Weather.Stale <= 0 {
		c.Weather.Stale = Duration(DefaultWeatherStale)
	}
	if c.Chat.MaxSessions <= 0 {
		c.Chat.MaxSessions = DefaultMaxChatSessions
	}
}

func (c *FileConfig) RequestTimeout() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Timeouts.Request == 0 {
			return DefaultRequestTimeout
		}
		return c.Timeouts.Request.Duration()
	})
}

func (c *FileConfig) HierarchyTimeout() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Timeouts.Hierarchy == 0 {
			return DefaultHierarchyTimeout
		}
		return c.Timeouts.Hierarchy.Duration()
	})
}

func (c *FileConfig) WeatherTimeout() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Timeouts.Weather == 0 {
			return DefaultWeatherTimeout
		}
		return c.Timeouts.Weather.Duration()
	})
}

func (c *FileConfig) WeatherStale() time.Duration {
	return withRLock(&c.mu, func() time.Duration {
		if c.Weather.Stale == 0 {
			return DefaultWeatherStale
		}
		return c.Weather.Stale.Duration()
	})
}

func (c *FileConfig) MaxChatSessions() int {
	return withRLock(&c.mu, func() int {
		if c.Chat.MaxSessions == 0 {
			return DefaultMaxChatSessions
		}
		return c.Chat.MaxSessions
	})
}

func (c *FileConfig) SaveChatSessions() bool {
	return withRLock(&c.mu, func() bool { return c.Chat.SaveSessions })
}
