package clockbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/pgn-clockscore/internal/archive"
	"github.com/park285/pgn-clockscore/internal/config"
	"github.com/park285/pgn-clockscore/internal/metrics"
	"github.com/park285/pgn-clockscore/internal/msgcat"
	"github.com/park285/pgn-clockscore/internal/report"
	"github.com/park285/pgn-clockscore/internal/reportcache"
	"github.com/park285/pgn-clockscore/internal/scorecard"
	"github.com/park285/pgn-clockscore/internal/service/analysis"
)

type Deps struct {
	Service   *analysis.Service
	Presenter *report.Presenter
	Metrics   *metrics.Collector
	Cache     *reportcache.Store
	Archive   archive.Repository
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	deps := &Deps{
		Presenter: report.NewPresenter(nil),
		Metrics:   metrics.NewCollector(),
	}

	// Cache (Redis optional)
	if strings.TrimSpace(cfg.RedisURL) != "" {
		cctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		deps.Cache, err = reportcache.Open(cctx, cfg.RedisURL, cfg.CacheTTL)
		cancel()
		if err != nil {
			logger.Warn("report cache disabled", zap.Error(err))
			deps.Cache = nil
		}
	}

	// Archive (DB optional)
	actx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	deps.Archive, err = archive.Open(actx, cfg.ArchiveDriver, cfg.DatabaseURL)
	cancel()
	if err != nil && !errors.Is(err, archive.ErrNotConfigured) {
		deps.Close()
		return nil, fmt.Errorf("init archive: %w", err)
	}

	var cache analysis.Cache
	if deps.Cache != nil {
		cache = deps.Cache
	}
	svcCfg := analysis.Config{
		Scoring: scorecard.Options{
			DefaultInitialTime: cfg.DefaultInitialTime,
			SegmentBaseline:    cfg.SegmentBaseline,
		},
		StoreTimeout: cfg.StoreTimeout,
		Variant:      catalog.Digest(),
	}
	deps.Service, err = analysis.NewService(report.NewFormatter(catalog), cache, deps.Archive, deps.Metrics, svcCfg, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

// Close releases the cache and archive connections.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Cache != nil {
		_ = d.Cache.Close()
	}
	if d.Archive != nil {
		_ = d.Archive.Close()
	}
}
