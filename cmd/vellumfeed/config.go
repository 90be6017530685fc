package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayn2op/vellum/datasource"
)

// Config is the on-disk configuration of the demo host.
type Config struct {
	// Store is the path of the bbolt feed database.
	Store string `yaml:"store"`
	// Source tunes the tokenList data source registration.
	Source SourceConfig `yaml:"source"`
	// ResponseDelayMs is the simulated backend latency before a fetch
	// request is answered.
	ResponseDelayMs int `yaml:"responseDelayMs"`
	// Theme names a term theme preset ("default", "mono").
	Theme string `yaml:"theme"`
}

// SourceConfig mirrors the data source registration fields of the engine.
// Pointer fields distinguish "absent" from an explicit zero, since zero
// retries is a meaningful setting.
type SourceConfig struct {
	CacheChunkSize int  `yaml:"cacheChunkSize"`
	FetchRetries   *int `yaml:"fetchRetries"`
	FetchTimeoutMs int  `yaml:"fetchTimeoutMs"`
}

func DefaultDemoConfig() Config {
	return Config{
		Store:           "vellumfeed.db",
		ResponseDelayMs: 150,
		Theme:           "default",
	}
}

// LoadConfig reads path, or returns the defaults when path is empty.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultDemoConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Store == "" {
		return Config{}, fmt.Errorf("config %s: store path is required", path)
	}
	if cfg.ResponseDelayMs < 0 {
		return Config{}, fmt.Errorf("config %s: responseDelayMs must not be negative", path)
	}
	return cfg, nil
}

// SourceSettings converts the YAML fields to the engine's data source
// configuration, filling anything absent with the stock defaults.
func (c Config) SourceSettings() datasource.Config {
	out := datasource.DefaultConfig()
	if c.Source.CacheChunkSize > 0 {
		out.CacheChunkSize = c.Source.CacheChunkSize
	}
	if c.Source.FetchRetries != nil {
		out.FetchRetries = *c.Source.FetchRetries
	}
	if c.Source.FetchTimeoutMs > 0 {
		out.FetchTimeout = time.Duration(c.Source.FetchTimeoutMs) * time.Millisecond
	}
	return out
}

func (c Config) responseDelay() time.Duration {
	return time.Duration(c.ResponseDelayMs) * time.Millisecond
}
