// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads UAP binary configuration from defaults, an
// optional YAML file, and UAP_ prefixed environment variables, in that
// order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Agent     AgentConfig     `koanf:"agent"`
	Hotel     HotelConfig     `koanf:"hotel"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider string `koanf:"provider"` // ollama, mock
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"baseurl"`
}

type DiscoveryConfig struct {
	BaseURL string        `koanf:"baseurl"` // default service to point the agent at
	Timeout time.Duration `koanf:"timeout"`
}

type AgentConfig struct {
	MaxTurns     int     `koanf:"maxturns"`
	Temperature  float64 `koanf:"temperature"`
	SystemPrompt string  `koanf:"systemprompt"`
}

type HotelConfig struct {
	Addr   string `koanf:"addr"`
	Name   string `koanf:"name"`
	Store  string `koanf:"store"` // memory, sqlite
	DBPath string `koanf:"dbpath"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlpendpoint"`
	OTLPInsecure bool   `koanf:"otlpinsecure"`
}

// Load reads configuration with precedence defaults < file < env.
// An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.provider", "ollama")
	k.Set("llm.model", "qwen2.5-coder:7b-instruct-q5_K_M")
	k.Set("llm.baseurl", "http://localhost:11434")
	k.Set("discovery.baseurl", "http://localhost:8000")
	k.Set("discovery.timeout", "10s")
	k.Set("agent.maxturns", 8)
	k.Set("agent.temperature", 0.0)
	k.Set("hotel.addr", ":8000")
	k.Set("hotel.name", "Example Hotel")
	k.Set("hotel.store", "memory")
	k.Set("hotel.dbpath", "hotel.db")
	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("telemetry.otlpinsecure", true)

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (UAP_LLM_PROVIDER -> llm.provider)
	if err := k.Load(env.Provider("UAP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "UAP_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
