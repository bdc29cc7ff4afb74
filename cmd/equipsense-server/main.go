// Command equipsense-server runs the fleet health service: REST API and
// WebSocket hub on one HTTP port, plus Prometheus scrape polling and
// optional MQTT ingestion. The model bundle is hot-swapped on config
// reload without dropping in-flight requests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/equipsense/equipsense/internal/api"
	"github.com/equipsense/equipsense/internal/config"
	"github.com/equipsense/equipsense/internal/ingest"
	"github.com/equipsense/equipsense/internal/model"
	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/scrape"
	"github.com/equipsense/equipsense/internal/store"
	"github.com/equipsense/equipsense/internal/telemetry"
	"github.com/equipsense/equipsense/internal/ws"
)

// assessor routes Assess calls through an atomically swappable predictor,
// so a config reload can replace the model bundle under live traffic.
type assessor struct {
	current atomic.Pointer[predict.Predictor]
}

func (a *assessor) Assess(rec *telemetry.Record) (*predict.Assessment, error) {
	return a.current.Load().Assess(rec)
}

func (a *assessor) swap(p *predict.Predictor) {
	a.current.Store(p)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("equipsense-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"model_dir", cfg.Model.Dir,
		"store_ttl", cfg.Store.TTL,
		"scrape_sources", len(cfg.Scrape.Sources),
		"mqtt_enabled", cfg.MQTT.Enabled(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Assessor with the initial model bundle (or rule-only fallback).
	as := &assessor{}
	as.swap(newPredictor(cfg.Model.Dir))

	// Assessment store with background TTL eviction.
	st := store.New(cfg.Store.TTL)
	go st.Run(ctx)

	// Watch the config file; a reload re-resolves the model bundle so
	// retrained artifacts can be picked up without a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			as.swap(newPredictor(updated.Model.Dir))
			slog.Info("config hot-reloaded", "model_dir", updated.Model.Dir)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Scrape poller — one goroutine per configured metrics endpoint.
	if len(cfg.Scrape.Sources) > 0 {
		poller := scrape.NewPoller(cfg.Scrape, as, st)
		go poller.Run(ctx)
	}

	// Optional MQTT ingestion.
	if cfg.MQTT.Enabled() {
		ing, err := ingest.New(cfg.MQTT, as, st)
		if err != nil {
			slog.Error("failed to start MQTT ingestion", "err", err)
			os.Exit(1)
		}
		defer ing.Close()
	}

	// WebSocket hub — pushes the fleet snapshot to clients on an interval.
	hub := ws.New(st, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	// Combined HTTP server: REST API + WebSocket hub on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(as, st))
	httpMux.Handle("/ws/stream", hub)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("equipsense-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// newPredictor loads the bundle at dir, falling back to rule-only
// assessment when it is absent or unreadable.
func newPredictor(dir string) *predict.Predictor {
	bundle, err := model.Load(dir)
	if err != nil {
		slog.Info("model bundle unavailable, using rule-based assessment", "dir", dir, "reason", err)
		return predict.NewRuleOnly()
	}
	if meta := bundle.Metadata(); meta != nil {
		slog.Info("model bundle loaded", "dir", dir, "model_type", meta.ModelType, "trained_at", meta.TrainedAt)
	} else {
		slog.Info("model bundle loaded", "dir", dir)
	}
	return predict.New(bundle)
}
