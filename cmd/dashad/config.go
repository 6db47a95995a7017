package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jyotish-labs/dashactl/internal/config"
)

type fileConfig struct {
	Name         string   `toml:"name"`
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	DefaultDepth int      `toml:"default_depth"`
	MaxDepth     int      `toml:"max_depth"`
	MaxCount     int      `toml:"max_count"`
	CacheSize    int      `toml:"cache_size"`
}

// loadServerConfig overlays the file onto the built-in defaults, touching
// only keys the file actually defines.
func loadServerConfig(path string) (config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.ServerConfig{}, fmt.Errorf("load dashad config: %w", err)
	}

	if meta.IsDefined("name") {
		if name := strings.TrimSpace(raw.Name); name != "" {
			cfg.Name = name
		}
	}
	if meta.IsDefined("addr") {
		if addr := strings.TrimSpace(raw.Addr); addr != "" {
			cfg.Addr = addr
		}
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("default_depth") {
		cfg.DefaultDepth = raw.DefaultDepth
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("max_count") {
		cfg.MaxCount = raw.MaxCount
	}
	if meta.IsDefined("cache_size") {
		cfg.CacheSize = raw.CacheSize
	}

	if err := config.ValidateServerConfig(cfg); err != nil {
		return config.ServerConfig{}, fmt.Errorf("dashad config invalid: %w", err)
	}
	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
