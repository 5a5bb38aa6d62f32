// Command planetserve streams generated planets to websocket clients and
// rebuilds when its config file changes (send SIGHUP to reload).
//
// Usage: go run ./cmd/planetserve -config planet.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/quadsphere/config"
	"github.com/pthm-cable/quadsphere/planet"
	"github.com/pthm-cable/quadsphere/stream"
	"github.com/pthm-cable/quadsphere/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *addr == "" {
		*addr = cfg.Stream.Addr
	}

	s, err := planet.SettingsFromConfig(&cfg.Planet)
	if err != nil {
		slog.Error("invalid planet config", "error", err)
		os.Exit(1)
	}
	gen, err := planet.NewGenerator(s, planet.Options{Logger: logger})
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}
	defer gen.Close()

	hub := stream.NewHub(time.Duration(cfg.Stream.WriteTimeout*float64(time.Second)), logger)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild := func() {
		res, err := gen.Rebuild(ctx, hub)
		if err != nil {
			slog.Error("rebuild failed", "error", err)
			return
		}
		perf.Record(res)
		slog.Info("perf", "stats", perf.Stats())
	}
	rebuild()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown failed", "error", err)
			}
			return
		case <-hup:
			if err := reload(*configPath, gen); err != nil {
				slog.Error("reload failed, keeping previous planet", "error", err)
				continue
			}
			rebuild()
		}
	}
}

// reload re-reads the config file and swaps the generator settings.
func reload(path string, gen *planet.Generator) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	s, err := planet.SettingsFromConfig(&cfg.Planet)
	if err != nil {
		return err
	}
	slog.Info("config reloaded", "path", path, "resolution", cfg.Planet.Resolution, "layers", len(cfg.Planet.Layers))
	return gen.Reconfigure(s)
}
