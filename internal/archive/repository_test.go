package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/park285/pgn-clockscore/internal/domain"
	"github.com/park285/pgn-clockscore/internal/timestats"
)

func openSQLite(t *testing.T) Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "archive.db")
	repo, err := Open(context.Background(), DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func analysis(hash, white string, at time.Time) *domain.ClockAnalysis {
	return &domain.ClockAnalysis{
		InputHash:    hash,
		White:        white,
		Black:        "Bob",
		WhiteElo:     "1500",
		BlackElo:     "N/A",
		Event:        "Rated Rapid game",
		Result:       "1-0",
		TimeControl:  "1800",
		InitialTime:  1800,
		Plies:        4,
		WhiteSummary: timestats.Summary{Count: 2, TotalTime: 40, AvgTime: 20, RecommendedAvg: 45, EfficiencyRatio: 44.4},
		BlackSummary: timestats.Summary{Count: 2, TotalTime: 50, AvgTime: 25, RecommendedAvg: 45},
		AnalyzedAt:   at,
	}
}

func TestSaveAndRecent(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := analysis("h1", "Alice", base)
	id1, err := repo.SaveAnalysis(ctx, first)
	require.NoError(t, err)
	assert.Positive(t, id1)
	_, err = uuid.Parse(first.RunID)
	assert.NoError(t, err, "run id should be a uuid")

	_, err = repo.SaveAnalysis(ctx, analysis("h2", "Carol", base.Add(time.Minute)))
	require.NoError(t, err)

	got, err := repo.RecentAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Carol", got[0].White)
	assert.Equal(t, "Alice", got[1].White)
	assert.Equal(t, 20.0, got[1].WhiteSummary.AvgTime)
	assert.Equal(t, 25.0, got[1].BlackSummary.AvgTime)
	assert.True(t, got[1].AnalyzedAt.Equal(base))

	limited, err := repo.RecentAnalyses(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveUpsertsByInputHash(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id1, err := repo.SaveAnalysis(ctx, analysis("same", "Alice", at))
	require.NoError(t, err)
	id2, err := repo.SaveAnalysis(ctx, analysis("same", "Alicia", at.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, err := repo.RecentAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alicia", got[0].White)
}

func TestSaveRequiresHash(t *testing.T) {
	repo := openSQLite(t)
	_, err := repo.SaveAnalysis(context.Background(), analysis("", "Alice", time.Now()))
	assert.Error(t, err)
}

func TestOpenNotConfigured(t *testing.T) {
	_, err := Open(context.Background(), "", "")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	sqlite := &repository{driver: DriverSQLite}
	assert.Equal(t, "VALUES (?, ?, ?) LIMIT ?", sqlite.rebind("VALUES ($1, $2, $3) LIMIT $4"))
	assert.Equal(t, "price $ and ?", sqlite.rebind("price $ and $12"))

	pg := &repository{driver: DriverPostgres}
	assert.Equal(t, "LIMIT $1", pg.rebind("LIMIT $1"))
}
