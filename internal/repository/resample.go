package repository

import (
	"fmt"
	"sort"
	"time"

	"SignalSweep/internal/domain/models"
	"SignalSweep/pkg/util"
)

// Resample keeps the latest observation of every epoch-aligned bucket of
// width step. Output timestamps are those of the kept observations, ordered
// by bucket.
func Resample(samples []models.Sample, step time.Duration) []models.Sample {
	if len(samples) == 0 || step <= 0 {
		return nil
	}

	buckets := make(map[int64]models.Sample, len(samples))
	for _, s := range samples {
		key := util.BucketStart(s.Timestamp, step).Unix()
		if prev, ok := buckets[key]; !ok || s.Timestamp.After(prev.Timestamp) {
			buckets[key] = s
		}
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]models.Sample, len(keys))
	for i, k := range keys {
		out[i] = buckets[k]
	}
	return out
}

// ResampleHours resamples to n-hour closes.
func ResampleHours(samples []models.Sample, n int) ([]models.Sample, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample hours must be >= 1, got %d", n)
	}
	return Resample(samples, time.Duration(n)*time.Hour), nil
}
