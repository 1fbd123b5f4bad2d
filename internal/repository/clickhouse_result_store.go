package repository

import (
	"context"
	"database/sql"
	"fmt"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	pkgch "SignalSweep/pkg/clickhouse"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS %s (
    id               String,
    kind             LowCardinality(String),
    mode             LowCardinality(String),
    strategy         String,
    sizing_fraction  Float64,
    initial_equity   Float64,
    final_equity     Float64,
    total_return_pct Float64,
    max_drawdown_pct Float64,
    win_rate_pct     Float64,
    closed           UInt32,
    samples          UInt32,
    created_at       DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (created_at, id)`

// ClickHouseResultStore persists run summaries.
type ClickHouseResultStore struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
}

func NewClickHouseResultStore(ch *pkgch.Client, table string) *ClickHouseResultStore {
	return &ClickHouseResultStore{ch: ch, db: ch.DB(), table: table}
}

// Init creates the results table if missing.
func (s *ClickHouseResultStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, []string{fmt.Sprintf(runsSchema, s.table)})
}

func (s *ClickHouseResultStore) Save(ctx context.Context, rec *models.RunRecord) error {
	q := fmt.Sprintf(`INSERT INTO %s (id, kind, mode, strategy, sizing_fraction, initial_equity, final_equity,
        total_return_pct, max_drawdown_pct, win_rate_pct, closed, samples, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err := s.db.ExecContext(ctx, q,
		rec.ID,
		rec.Kind,
		string(rec.Mode),
		rec.Strategy,
		rec.SizingFraction,
		rec.InitialEquity,
		rec.FinalEquity,
		rec.TotalReturnPct,
		rec.MaxDrawdownPct,
		rec.WinRatePct,
		uint32(rec.Closed),
		uint32(rec.Samples),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

func (s *ClickHouseResultStore) Close() error {
	return nil // pool is owned by pkg/clickhouse.Client
}

var _ drepo.ResultSink = (*ClickHouseResultStore)(nil)
