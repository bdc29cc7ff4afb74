package scrape

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/equipsense/equipsense/internal/config"
	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/store"
	"github.com/equipsense/equipsense/internal/telemetry"
)

// Assessor produces assessments from telemetry records.
type Assessor interface {
	Assess(rec *telemetry.Record) (*predict.Assessment, error)
}

// Poller drives one goroutine per configured source, assessing every
// successful scrape and storing the result.
type Poller struct {
	cfg      config.ScrapeConfig
	assessor Assessor
	store    *store.Store
}

// NewPoller builds a Poller over the scrape configuration.
func NewPoller(cfg config.ScrapeConfig, assessor Assessor, st *store.Store) *Poller {
	return &Poller{cfg: cfg, assessor: assessor, store: st}
}

// Run polls every source until ctx is cancelled. A failing source only
// logs; its last stored assessment ages out of the fleet views via the
// store TTL.
func (p *Poller) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, src := range p.cfg.Sources {
		interval := src.Interval
		if interval <= 0 {
			interval = p.cfg.Interval
		}
		wg.Add(1)
		go func(src config.ScrapeSource, interval time.Duration) {
			defer wg.Done()
			p.pollSource(ctx, src, interval)
		}(src, interval)
	}
	wg.Wait()
}

func (p *Poller) pollSource(ctx context.Context, src config.ScrapeSource, interval time.Duration) {
	s := New(src)
	t := time.NewTicker(interval)
	defer t.Stop()

	slog.Info("scrape: polling source", "source", src.ID, "endpoint", src.Endpoint, "interval", interval)

	// First poll immediately rather than waiting a full interval.
	p.pollOnce(ctx, s, src)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.pollOnce(ctx, s, src)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context, s *Scraper, src config.ScrapeSource) {
	rec, err := s.Scrape(ctx)
	if err != nil {
		slog.Warn("scrape: poll failed", "source", src.ID, "err", err)
		return
	}
	a, err := p.assessor.Assess(rec)
	if err != nil {
		slog.Warn("scrape: assessment failed", "source", src.ID, "err", err)
		return
	}
	p.store.Put(rec.EquipmentID, a)
	slog.Debug("scrape: assessment stored",
		"source", src.ID,
		"equipment_id", rec.EquipmentID,
		"health_score", a.HealthScore,
		"risk_level", a.RiskLevel,
		"method", a.PredictionMethod,
	)
}
