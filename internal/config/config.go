package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jyotish-labs/dashactl/internal/vimshottari"
)

type ServerConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`

	// DefaultDepth is the tree depth built when a chart request omits one.
	DefaultDepth int `toml:"default_depth"`
	// MaxDepth caps per-request depth.
	MaxDepth int `toml:"max_depth"`
	// MaxCount caps how many periods one upcoming query may return.
	MaxCount int `toml:"max_count"`
	// CacheSize bounds the in-process chart cache. Evicted charts are
	// rebuilt deterministically, so sizing is purely a memory concern.
	CacheSize int `toml:"cache_size"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:         "dashad",
		Addr:         ":9200",
		DefaultDepth: 3,
		MaxDepth:     int(vimshottari.MaxTreeDepth),
		MaxCount:     256,
		CacheSize:    512,
	}
}

func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "dashad"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9200"
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.DefaultDepth < 1 || cfg.DefaultDepth > cfg.MaxDepth {
		return fmt.Errorf("default_depth %d not in [1, %d]", cfg.DefaultDepth, cfg.MaxDepth)
	}
	if cfg.MaxDepth < 1 || cfg.MaxDepth > int(vimshottari.MaxTreeDepth) {
		return fmt.Errorf("max_depth %d not in [1, %d]", cfg.MaxDepth, vimshottari.MaxTreeDepth)
	}
	if cfg.MaxCount < 1 {
		return fmt.Errorf("max_count must be positive")
	}
	if cfg.CacheSize < 1 {
		return fmt.Errorf("cache_size must be positive")
	}
	return nil
}
