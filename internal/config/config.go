package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DefaultFolder string `koanf:"default_folder"`
	Protocol      string `koanf:"protocol"`     // "kitty", "sixel", "halfblock", or "" for auto-detect
	ScalePolicy   string `koanf:"scale_policy"` // "fit", "fill", "stretch", "none"

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// HTTP client settings
	HTTP HTTPConfig `koanf:"http"`
}

// CacheConfig holds disk and memory cache configuration.
type CacheConfig struct {
	Dir        string `koanf:"dir"`        // empty means XDG cache dir
	DiskMiB    int64  `koanf:"disk_mib"`   // disk cache budget in MiB (default: 256)
	MemoryMiB  int64  `koanf:"memory_mib"` // memory cache budget in MiB (default: 64)
	Revalidate *bool  `koanf:"revalidate"` // conditional GETs on cache hits (default: true)
}

// HTTPConfig holds HTTP fetch configuration.
type HTTPConfig struct {
	TimeoutSeconds int    `koanf:"timeout_seconds"` // request timeout (default: 30)
	UserAgent      string `koanf:"user_agent"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultFolder: "", // empty means use cwd
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/glance/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "glance", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetCacheConfig returns the cache configuration with defaults applied.
func (c *Config) GetCacheConfig() CacheConfig {
	cfg := c.Cache

	if cfg.DiskMiB <= 0 {
		cfg.DiskMiB = 256
	}
	if cfg.MemoryMiB <= 0 {
		cfg.MemoryMiB = 64
	}

	return cfg
}

// DiskBudget returns the disk cache budget in bytes.
func (c CacheConfig) DiskBudget() int64 { return c.DiskMiB * 1024 * 1024 }

// MemoryBudget returns the memory cache budget in bytes.
func (c CacheConfig) MemoryBudget() int64 { return c.MemoryMiB * 1024 * 1024 }

// ShouldRevalidate reports whether cached HTTP entries are revalidated
// with conditional requests before use.
func (c CacheConfig) ShouldRevalidate() bool {
	return c.Revalidate == nil || *c.Revalidate
}

// HTTPTimeout returns the request timeout with the default applied.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTP.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
