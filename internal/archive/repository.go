// Package archive persists analysis summaries to postgres or sqlite.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/park285/pgn-clockscore/internal/domain"
)

var ErrNotConfigured = errors.New("analysis archive not configured")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Repository interface {
	SaveAnalysis(ctx context.Context, a *domain.ClockAnalysis) (int64, error)
	RecentAnalyses(ctx context.Context, limit int) ([]*domain.ClockAnalysis, error)
	Close() error
}

type repository struct {
	db     *sql.DB
	driver string
}

// Open connects to the archive database and creates its table when missing.
// An empty driver yields ErrNotConfigured.
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return nil, ErrNotConfigured
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported archive driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for archive driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite serialises writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	r := &repository{db: db, driver: driver}
	if err := r.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewRepository wraps an existing handle; the table must already exist.
func NewRepository(db *sql.DB, driver string) Repository {
	return &repository{db: db, driver: driver}
}

func (r *repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *repository) migrate(ctx context.Context) error {
	idCol := "BIGSERIAL PRIMARY KEY"
	if r.driver == DriverSQLite {
		idCol = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	query := `
		CREATE TABLE IF NOT EXISTS clock_analyses (
			id ` + idCol + `,
			run_id TEXT NOT NULL,
			input_hash TEXT NOT NULL UNIQUE,
			white TEXT NOT NULL,
			black TEXT NOT NULL,
			white_elo TEXT NOT NULL,
			black_elo TEXT NOT NULL,
			event TEXT NOT NULL,
			result TEXT NOT NULL,
			time_control TEXT NOT NULL,
			initial_time DOUBLE PRECISION NOT NULL,
			plies INTEGER NOT NULL,
			white_summary TEXT NOT NULL,
			black_summary TEXT NOT NULL,
			analyzed_at_ms BIGINT NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create clock_analyses: %w", err)
	}
	return nil
}

// SaveAnalysis upserts by input hash and returns the row id. A missing RunID
// is filled with a fresh UUID.
func (r *repository) SaveAnalysis(ctx context.Context, a *domain.ClockAnalysis) (int64, error) {
	if r == nil || r.db == nil {
		return 0, ErrNotConfigured
	}
	if a == nil {
		return 0, fmt.Errorf("nil analysis payload")
	}
	if strings.TrimSpace(a.InputHash) == "" {
		return 0, fmt.Errorf("analysis input hash is required")
	}
	if a.RunID == "" {
		a.RunID = uuid.NewString()
	}
	if a.AnalyzedAt.IsZero() {
		a.AnalyzedAt = time.Now()
	}

	whiteSummary, err := json.Marshal(a.WhiteSummary)
	if err != nil {
		return 0, fmt.Errorf("marshal white_summary: %w", err)
	}
	blackSummary, err := json.Marshal(a.BlackSummary)
	if err != nil {
		return 0, fmt.Errorf("marshal black_summary: %w", err)
	}

	const query = `
		INSERT INTO clock_analyses (
			run_id,
			input_hash,
			white,
			black,
			white_elo,
			black_elo,
			event,
			result,
			time_control,
			initial_time,
			plies,
			white_summary,
			black_summary,
			analyzed_at_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (input_hash) DO UPDATE SET
			run_id=EXCLUDED.run_id,
			white=EXCLUDED.white,
			black=EXCLUDED.black,
			white_elo=EXCLUDED.white_elo,
			black_elo=EXCLUDED.black_elo,
			event=EXCLUDED.event,
			result=EXCLUDED.result,
			time_control=EXCLUDED.time_control,
			initial_time=EXCLUDED.initial_time,
			plies=EXCLUDED.plies,
			white_summary=EXCLUDED.white_summary,
			black_summary=EXCLUDED.black_summary,
			analyzed_at_ms=EXCLUDED.analyzed_at_ms
		RETURNING id`

	var id int64
	err = r.db.QueryRowContext(
		ctx,
		r.rebind(query),
		a.RunID,
		a.InputHash,
		a.White,
		a.Black,
		a.WhiteElo,
		a.BlackElo,
		a.Event,
		a.Result,
		a.TimeControl,
		a.InitialTime,
		a.Plies,
		string(whiteSummary),
		string(blackSummary),
		a.AnalyzedAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert clock analysis: %w", err)
	}
	a.ID = id
	return id, nil
}

func (r *repository) RecentAnalyses(ctx context.Context, limit int) ([]*domain.ClockAnalysis, error) {
	if r == nil || r.db == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT
			id,
			run_id,
			input_hash,
			white,
			black,
			white_elo,
			black_elo,
			event,
			result,
			time_control,
			initial_time,
			plies,
			white_summary,
			black_summary,
			analyzed_at_ms
		FROM clock_analyses
		ORDER BY analyzed_at_ms DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), limit)
	if err != nil {
		return nil, fmt.Errorf("select clock analyses: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.ClockAnalysis, 0, limit)
	for rows.Next() {
		var (
			a            domain.ClockAnalysis
			whiteJSON    string
			blackJSON    string
			analyzedAtMS int64
		)
		if err := rows.Scan(
			&a.ID,
			&a.RunID,
			&a.InputHash,
			&a.White,
			&a.Black,
			&a.WhiteElo,
			&a.BlackElo,
			&a.Event,
			&a.Result,
			&a.TimeControl,
			&a.InitialTime,
			&a.Plies,
			&whiteJSON,
			&blackJSON,
			&analyzedAtMS,
		); err != nil {
			return nil, fmt.Errorf("scan clock analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(whiteJSON), &a.WhiteSummary); err != nil {
			return nil, fmt.Errorf("unmarshal white_summary: %w", err)
		}
		if err := json.Unmarshal([]byte(blackJSON), &a.BlackSummary); err != nil {
			return nil, fmt.Errorf("unmarshal black_summary: %w", err)
		}
		a.AnalyzedAt = time.UnixMilli(analyzedAtMS)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clock analyses: %w", err)
	}
	return out, nil
}

// rebind turns $N placeholders into sqlite's positional '?'. Queries must
// reference each placeholder once, in ascending order.
func (r *repository) rebind(query string) string {
	if r.driver != DriverSQLite {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] != '$' {
			sb.WriteByte(query[i])
			continue
		}
		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if _, err := strconv.Atoi(query[i+1 : j]); err != nil {
			sb.WriteByte(query[i])
			continue
		}
		sb.WriteByte('?')
		i = j - 1
	}
	return sb.String()
}
