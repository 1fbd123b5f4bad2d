package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	pkgch "SignalSweep/pkg/clickhouse"
	applogger "SignalSweep/pkg/logger"
)

// ClickHouseSource reads (t, c) closes of one symbol.
type ClickHouseSource struct {
	db     *sql.DB
	table  string
	symbol string
	from   time.Time
	to     time.Time
	l      *applogger.Logger
}

// NewClickHouseSource creates a source. Zero from/to leave that side open.
func NewClickHouseSource(ch *pkgch.Client, table, symbol string, from, to time.Time, l *applogger.Logger) *ClickHouseSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseSource{db: ch.DB(), table: table, symbol: symbol, from: from, to: to, l: l}
}

func (s *ClickHouseSource) Name() string {
	return fmt.Sprintf("clickhouse:%s/%s", s.table, s.symbol)
}

func (s *ClickHouseSource) Load(ctx context.Context, sampleHours int) ([]models.Sample, error) {
	start := time.Now()
	q, args := sampleQuery(s.table, s.symbol, s.from, s.to)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse load samples query error",
			applogger.String("table", s.table),
			applogger.String("symbol", s.symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	out := make([]models.Sample, 0, 4096)
	for rows.Next() {
		var smp models.Sample
		if err := rows.Scan(&smp.Timestamp, &smp.Price); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.Timestamp = smp.Timestamp.UTC()
		out = append(out, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("clickhouse samples loaded",
		applogger.String("symbol", s.symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("took_ms", time.Since(start)),
	)
	return ResampleHours(out, sampleHours)
}

func sampleQuery(table, symbol string, from, to time.Time) (string, []interface{}) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT t, c FROM %s WHERE symbol = ?", table)
	args := []interface{}{symbol}
	if !from.IsZero() {
		b.WriteString(" AND t >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		b.WriteString(" AND t <= ?")
		args = append(args, to)
	}
	b.WriteString(" ORDER BY t")
	return b.String(), args
}

var _ drepo.SampleSource = (*ClickHouseSource)(nil)
