package repository

import (
	"testing"
	"time"
)

func TestSampleQuery(t *testing.T) {
	from := ts("2024-01-01T00:00:00Z")
	to := ts("2024-02-01T00:00:00Z")

	cases := []struct {
		name     string
		from, to time.Time
		want     string
		args     int
	}{
		{"open", time.Time{}, time.Time{}, "SELECT t, c FROM prices WHERE symbol = ? ORDER BY t", 1},
		{"from", from, time.Time{}, "SELECT t, c FROM prices WHERE symbol = ? AND t >= ? ORDER BY t", 2},
		{"both", from, to, "SELECT t, c FROM prices WHERE symbol = ? AND t >= ? AND t <= ? ORDER BY t", 3},
	}
	for _, tc := range cases {
		q, args := sampleQuery("prices", "BTCUSDT", tc.from, tc.to)
		if q != tc.want {
			t.Fatalf("%s: query=%q", tc.name, q)
		}
		if len(args) != tc.args {
			t.Fatalf("%s: args=%d want %d", tc.name, len(args), tc.args)
		}
		if args[0] != "BTCUSDT" {
			t.Fatalf("%s: first arg=%v", tc.name, args[0])
		}
	}
}
