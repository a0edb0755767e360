// Package analysis runs one PGN through parsing, scoring and rendering, with
// the optional report cache and archive around it.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/park285/pgn-clockscore/internal/archive"
	"github.com/park285/pgn-clockscore/internal/clock"
	"github.com/park285/pgn-clockscore/internal/domain"
	"github.com/park285/pgn-clockscore/internal/metrics"
	"github.com/park285/pgn-clockscore/internal/movetime"
	"github.com/park285/pgn-clockscore/internal/pgnsource"
	"github.com/park285/pgn-clockscore/internal/reportcache"
	"github.com/park285/pgn-clockscore/internal/scorecard"
)

// ErrNoGame reports an input without a parsable game.
var ErrNoGame = pgnsource.ErrNoGame

// Cache stores rendered reports.
type Cache interface {
	Load(ctx context.Context, key string) (*reportcache.Entry, error)
	Save(ctx context.Context, key string, e *reportcache.Entry) error
}

// Renderer turns a scorecard into report text.
type Renderer interface {
	Render(sc *scorecard.Scorecard) string
}

type Config struct {
	Scoring      scorecard.Options
	StoreTimeout time.Duration
	// Variant identifies the message set; it is folded into the input hash.
	Variant      string
}

type Service struct {
	renderer Renderer
	cache    Cache
	repo     archive.Repository
	metrics  *metrics.Collector
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// Outcome is the result of one Analyze call. Scorecard is nil when the report
// came from the cache.
type Outcome struct {
	Report    string
	Scorecard *scorecard.Scorecard
	InputHash string
	RunID     string
	Cached    bool
}

// NewService wires the analysis pipeline. cache, repo and collector may be nil.
func NewService(renderer Renderer, cache Cache, repo archive.Repository, collector *metrics.Collector, cfg Config, logger *zap.Logger) (*Service, error) {
	if renderer == nil {
		return nil, fmt.Errorf("report renderer is required")
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 3 * time.Second
	}
	if cfg.Scoring.DefaultInitialTime <= 0 {
		cfg.Scoring.DefaultInitialTime = movetime.DefaultInitialTime
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		renderer: renderer,
		cache:    cache,
		repo:     repo,
		metrics:  collector,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Analyze scores the first game in pgn and renders its report.
func (s *Service) Analyze(ctx context.Context, pgn []byte) (*Outcome, error) {
	hash := reportcache.Hash(pgn, s.variant())
	if out := s.cached(ctx, hash); out != nil {
		return out, nil
	}

	g, err := pgnsource.Parse(pgn)
	if err != nil {
		if errors.Is(err, pgnsource.ErrNoGame) {
			s.metrics.RecordNoGame()
			s.logger.Info("no_game_found", zap.Error(err))
			return nil, ErrNoGame
		}
		return nil, fmt.Errorf("parse pgn: %w", err)
	}

	sc := scorecard.Build(g, s.cfg.Scoring)
	s.metrics.RecordGame(sc.Moves)
	s.logClocks(sc)

	out := &Outcome{
		Report:    s.renderer.Render(sc),
		Scorecard: sc,
		InputHash: hash,
	}
	s.store(ctx, out)
	return out, nil
}

// History lists the most recent archived analyses.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.ClockAnalysis, error) {
	if s.repo == nil {
		return nil, archive.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.repo.RecentAnalyses(ctx, limit)
}

func (s *Service) variant() string {
	return fmt.Sprintf("%s|%g|%g", s.cfg.Variant, s.cfg.Scoring.DefaultInitialTime, s.cfg.Scoring.SegmentBaseline)
}

func (s *Service) cached(ctx context.Context, hash string) *Outcome {
	if s.cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	entry, err := s.cache.Load(ctx, reportcache.Key(hash))
	if err != nil {
		s.logger.Warn("report_cache_load_failed", zap.Error(err))
		return nil
	}
	s.metrics.RecordCache(entry != nil)
	if entry == nil {
		return nil
	}
	s.logger.Info("report_cache_hit", zap.String("hash", hash), zap.Int("plies", entry.Plies))
	return &Outcome{Report: entry.Report, InputHash: hash, Cached: true}
}

func (s *Service) store(ctx context.Context, out *Outcome) {
	sc := out.Scorecard
	if s.cache != nil {
		cctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
		err := s.cache.Save(cctx, reportcache.Key(out.InputHash), &reportcache.Entry{
			Report:    out.Report,
			Plies:     len(sc.Moves.Records),
			CreatedAt: s.now(),
		})
		cancel()
		if err != nil {
			s.logger.Warn("report_cache_save_failed", zap.Error(err))
		}
	}

	if s.repo == nil {
		return
	}
	rec := &domain.ClockAnalysis{
		InputHash:    out.InputHash,
		White:        sc.Header.White,
		Black:        sc.Header.Black,
		WhiteElo:     sc.Header.WhiteElo,
		BlackElo:     sc.Header.BlackElo,
		Event:        sc.Header.Event,
		Result:       sc.Header.Result,
		TimeControl:  sc.Header.TimeControl,
		InitialTime:  sc.Moves.InitialTime,
		Plies:        len(sc.Moves.Records),
		WhiteSummary: sc.White.Summary,
		BlackSummary: sc.Black.Summary,
		AnalyzedAt:   s.now(),
	}
	actx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	id, err := s.repo.SaveAnalysis(actx, rec)
	if err != nil {
		s.logger.Warn("analysis_archive_failed", zap.Error(err))
		return
	}
	out.RunID = rec.RunID
	s.logger.Info("analysis_archived", zap.Int64("id", id), zap.String("run_id", rec.RunID))
}

func (s *Service) logClocks(sc *scorecard.Scorecard) {
	res := sc.Moves
	for i, r := range res.Records {
		if r.Marker == clock.MarkerFound {
			continue
		}
		s.logger.Debug("clock_marker_"+r.Marker.String(),
			zap.Int("ply", i+1),
			zap.String("side", r.Side.String()),
			zap.String("san", r.SAN),
		)
	}
	s.logger.Info("clock_summary",
		zap.Int("plies", len(res.Records)),
		zap.String("initial", clock.Format(res.InitialTime)),
		zap.String("white_final", clock.Format(res.FinalClock(movetime.White))),
		zap.String("black_final", clock.Format(res.FinalClock(movetime.Black))),
		zap.Int("markers_absent", res.MarkerCount(clock.MarkerAbsent)),
		zap.Int("markers_malformed", res.MarkerCount(clock.MarkerMalformed)),
	)
}
