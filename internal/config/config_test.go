package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jyotish-labs/dashactl/internal/testutil/testlog"
)

func TestTemplateRoundTrips(t *testing.T) {
	testlog.Start(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteTemplate(path, "server", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "server", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Name != "dashad" || cfg.DefaultDepth != 3 || cfg.CacheSize != 512 {
		t.Fatalf("template config unexpected: %+v", cfg)
	}

	if _, err := Template("mirage"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestValidateServerConfig(t *testing.T) {
	testlog.Start(t)

	good := DefaultServerConfig()
	if err := ValidateServerConfig(good); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"blank name", func(c *ServerConfig) { c.Name = "  " }},
		{"blank addr", func(c *ServerConfig) { c.Addr = "" }},
		{"zero depth", func(c *ServerConfig) { c.DefaultDepth = 0 }},
		{"default past max", func(c *ServerConfig) { c.DefaultDepth = c.MaxDepth + 1 }},
		{"max depth past cap", func(c *ServerConfig) { c.MaxDepth = 20 }},
		{"zero count", func(c *ServerConfig) { c.MaxCount = 0 }},
		{"zero cache", func(c *ServerConfig) { c.CacheSize = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultServerConfig()
		tc.mutate(&cfg)
		if err := ValidateServerConfig(cfg); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	testlog.Start(t)

	if _, err := LoadServerConfig(filepath.Join(os.TempDir(), "dashactl-does-not-exist.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
