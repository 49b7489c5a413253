// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package main runs a one-shot UAP agent: it answers a single question
// by discovering and invoking UAP services, asking on the terminal
// before any action that requires user confirmation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jllopis/uap/pkg/agent"
	"github.com/jllopis/uap/pkg/config"
	"github.com/jllopis/uap/pkg/invoker"
	"github.com/jllopis/uap/pkg/llm"
	"github.com/jllopis/uap/pkg/telemetry"
	"github.com/jllopis/uap/pkg/tools"
	"github.com/jllopis/uap/pkg/uap"
)

const version = "0.1.0"

const defaultSystemPrompt = "You are a helpful assistant that uses UAP services. " +
	"Use uap_discover to find what a service offers, then uap_http to invoke actions. " +
	"Substitute every {placeholder} in an href via the params argument before invoking."

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	ask := flag.String("ask", "", "question to answer (required)")
	model := flag.String("model", "", "model name (overrides config)")
	yes := flag.Bool("yes", false, "auto-approve confirmation prompts")
	flag.Parse()

	if *ask == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *model != "" {
		cfg.LLM.Model = *model
	}

	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var metrics *telemetry.AgentMetrics
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitWithConfig("uap-agent", version, telemetry.Config{
			Exporter:     cfg.Telemetry.Exporter,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: cfg.Telemetry.OTLPInsecure,
		})
		if err != nil {
			log.Fatalf("failed to init telemetry: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
		if metrics, err = telemetry.NewAgentMetrics(); err != nil {
			log.Fatalf("failed to create metrics: %v", err)
		}
	}

	provider, err := newProvider(cfg)
	if err != nil {
		log.Fatalf("failed to create provider: %v", err)
	}

	tracker := tools.NewGateTracker()
	client := uap.NewClient(uap.WithTimeout(cfg.Discovery.Timeout))
	inv := invoker.New(invoker.WithTimeout(cfg.Discovery.Timeout))
	registry, err := tools.NewDefaultRegistry(client, inv, tracker)
	if err != nil {
		log.Fatalf("failed to create tools: %v", err)
	}

	var confirmer agent.Confirmer = &agent.PromptConfirmer{In: os.Stdin, Out: os.Stderr}
	if *yes {
		confirmer = agent.AllowAll{}
	}

	systemPrompt := cfg.Agent.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if cfg.Discovery.BaseURL != "" {
		systemPrompt += fmt.Sprintf(" The default service base URL is %s.", cfg.Discovery.BaseURL)
	}

	a, err := agent.New("uap-agent", provider, registry,
		agent.WithModel(cfg.LLM.Model),
		agent.WithSystemPrompt(systemPrompt),
		agent.WithTemperature(cfg.Agent.Temperature),
		agent.WithMaxTurns(cfg.Agent.MaxTurns),
		agent.WithGateTracker(tracker),
		agent.WithConfirmer(confirmer),
		agent.WithMetrics(metrics),
	)
	if err != nil {
		log.Fatalf("failed to create agent: %v", err)
	}

	answer, err := a.Run(ctx, *ask)
	if err != nil {
		log.Fatalf("agent error: %v", err)
	}
	fmt.Println(answer)
}

func newProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLM.Provider {
	case "", "ollama":
		return llm.NewOllama(cfg.LLM.BaseURL), nil
	case "mock":
		return &llm.MockProvider{Response: "mock answer"}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}
