// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package main serves the UAP tools over MCP stdio, so MCP hosts can
// discover and invoke UAP services.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/jllopis/uap/pkg/config"
	"github.com/jllopis/uap/pkg/invoker"
	"github.com/jllopis/uap/pkg/mcpserver"
	"github.com/jllopis/uap/pkg/telemetry"
	"github.com/jllopis/uap/pkg/tools"
	"github.com/jllopis/uap/pkg/uap"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Stdio carries the protocol, so logs go to stderr only.
	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	registry, err := tools.NewDefaultRegistry(uap.NewClient(), invoker.New(), tools.NewGateTracker())
	if err != nil {
		log.Fatalf("failed to create tools: %v", err)
	}

	server, err := mcpserver.New("uap", version, registry)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	if err := server.ServeStdio(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
