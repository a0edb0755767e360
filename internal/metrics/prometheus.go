// Package metrics collects per-run counters and writes them as a node_exporter textfile.
package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/park285/pgn-clockscore/internal/movetime"
)

// Collector holds the metrics of one CLI run on a private registry.
type Collector struct {
	registry *prometheus.Registry

	gamesTotal      *prometheus.CounterVec
	pliesTotal      *prometheus.CounterVec
	markersTotal    *prometheus.CounterVec
	moveTimeSeconds *prometheus.HistogramVec
	cacheTotal      *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		gamesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clockscore_games_total",
				Help: "Games processed, by outcome",
			},
			[]string{"outcome"},
		),
		pliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clockscore_plies_total",
				Help: "Plies analysed, by side",
			},
			[]string{"side"},
		),
		markersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clockscore_clock_markers_total",
				Help: "Clock markers seen, by status",
			},
			[]string{"status"},
		),
		moveTimeSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clockscore_move_time_seconds",
				Help:    "Reconstructed time spent per move",
				Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 120, 300, 600},
			},
			[]string{"side"},
		),
		cacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clockscore_report_cache_total",
				Help: "Report cache lookups, by result",
			},
			[]string{"result"},
		),
	}
}

// RecordGame records the moves of one analysed game.
func (c *Collector) RecordGame(res *movetime.Result) {
	if c == nil || res == nil {
		return
	}
	c.gamesTotal.WithLabelValues("analysed").Inc()
	for _, r := range res.Records {
		side := r.Side.String()
		c.pliesTotal.WithLabelValues(side).Inc()
		c.moveTimeSeconds.WithLabelValues(side).Observe(r.TimeUsed)
		c.markersTotal.WithLabelValues(r.Marker.String()).Inc()
	}
}

// RecordNoGame counts an input without a parsable game.
func (c *Collector) RecordNoGame() {
	if c == nil {
		return
	}
	c.gamesTotal.WithLabelValues("no_game").Inc()
}

// RecordCache counts a report cache lookup.
func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheTotal.WithLabelValues(result).Inc()
}

// Registry exposes the private registry for gathering.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes every metric to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
