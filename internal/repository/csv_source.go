package repository

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	"SignalSweep/pkg/util"
)

type priceRow struct {
	Timestamp string  `csv:"timestamp"`
	Price     float64 `csv:"price"`
}

// CSVSource loads a timestamp,price file and resamples it on every Load.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

func (s *CSVSource) Load(_ context.Context, sampleHours int) ([]models.Sample, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	raw, err := ReadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return ResampleHours(raw, sampleHours)
}

// ReadSamples decodes CSV rows with a timestamp,price header. Timestamps must
// be RFC3339; any malformed row fails the whole read.
func ReadSamples(r io.Reader) ([]models.Sample, error) {
	var rows []priceRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	out := make([]models.Sample, 0, len(rows))
	for i, row := range rows {
		ts, ok := util.ParseRFC3339(row.Timestamp)
		if !ok {
			return nil, fmt.Errorf("row %d: invalid timestamp %q", i+1, row.Timestamp)
		}
		out = append(out, models.Sample{Timestamp: ts, Price: row.Price})
	}
	return out, nil
}

var _ drepo.SampleSource = (*CSVSource)(nil)
