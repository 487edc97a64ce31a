// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// careapi is the Meridian Health reference backend: the REST service
// the portal clients talk to. It serves the /v1 API, Prometheus
// metrics on /metrics and a /healthz probe.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridianhealth/portal/pkg/logging"
	"github.com/meridianhealth/portal/services/careapi/config"
	"github.com/meridianhealth/portal/services/careapi/server"
	"github.com/meridianhealth/portal/services/careapi/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("configuration error", "error", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{
		Service: "careapi",
		LogDir:  cfg.LogDir,
		JSON:    true,
	})
	defer log.Close()

	var st store.Store
	if cfg.DataDir != "" {
		st, err = store.OpenBadger(cfg.DataDir)
		if err != nil {
			log.Error("store open failed", "error", err, "data_dir", cfg.DataDir)
			os.Exit(1)
		}
		log.Info("using badger store", "data_dir", cfg.DataDir)
	} else {
		st = store.NewMemory()
		log.Info("using in-memory store")
	}
	defer st.Close()

	if err := server.SeedDemo(st); err != nil {
		log.Error("demo seed failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(st, cfg, server.WithLogger(log))
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("careapi listening", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
