// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package main runs the example hotel service, a UAP-discoverable
// booking API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jllopis/uap/pkg/config"
	"github.com/jllopis/uap/pkg/hotel"
	"github.com/jllopis/uap/pkg/telemetry"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Hotel.Addr = *addr
	}

	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitWithConfig("uap-hotel", version, telemetry.Config{
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
	}

	store, cleanup, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to open booking store: %v", err)
	}
	defer cleanup()

	svc, err := hotel.NewService(store,
		hotel.WithName(cfg.Hotel.Name),
		hotel.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("failed to create service: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Hotel.Addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("hotel.listening",
			slog.String("addr", cfg.Hotel.Addr),
			slog.String("store", cfg.Hotel.Store),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("shutdown error: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}
}

func newStore(cfg *config.Config) (hotel.BookingStore, func(), error) {
	switch cfg.Hotel.Store {
	case "", "memory":
		return hotel.NewMemoryStore(), func() {}, nil
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Hotel.DBPath)
		if err != nil {
			return nil, nil, err
		}
		store, err := hotel.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Hotel.Store)
	}
}
