package indicators

import (
	"math"
	"testing"

	"SignalSweep/internal/domain/models"

	"github.com/markcheno/go-talib"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func series(from, to float64) []float64 {
	var out []float64
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func TestSimpleMovingAverage(t *testing.T) {
	if _, ok := SimpleMovingAverage([]float64{1, 2}, 3); ok {
		t.Fatalf("expected insufficient data")
	}
	if _, ok := SimpleMovingAverage([]float64{1, 2}, 0); ok {
		t.Fatalf("expected zero window to fail")
	}
	got, ok := SimpleMovingAverage([]float64{1, 2, 3, 4}, 2)
	if !ok || got != 3.5 {
		t.Fatalf("unexpected sma %v", got)
	}
}

func TestSimpleMovingAverageMatchesTalib(t *testing.T) {
	prices := []float64{101.2, 99.8, 100.4, 102.9, 104.1, 103.3, 101.7, 100.2, 98.6, 99.9, 102.4, 105.0}
	for _, window := range []int{2, 3, 5, 8} {
		ref := talib.Sma(prices, window)
		got, ok := SimpleMovingAverage(prices, window)
		if !ok {
			t.Fatalf("window %d: expected value", window)
		}
		if !approx(got, ref[len(ref)-1], 1e-9) {
			t.Fatalf("window %d: got %v, talib %v", window, got, ref[len(ref)-1])
		}
	}
}

func TestMovingAveragesRequiresLongPlusOne(t *testing.T) {
	prices := series(1, 50)
	if _, ok := MovingAverages(prices, 20, 50); ok {
		t.Fatalf("expected none for len == long")
	}
	prices = append(prices, 51)
	set, ok := MovingAverages(prices, 20, 50)
	if !ok {
		t.Fatalf("expected value for len == long+1")
	}
	if set.Short != 41.5 || set.Long != 26.5 {
		t.Fatalf("unexpected current averages %+v", set)
	}
	if set.PrevShort != 40.5 || set.PrevLong != 25.5 {
		t.Fatalf("unexpected previous averages %+v", set)
	}
}

func TestMovingAveragesPrevEqualsOneStepEarlier(t *testing.T) {
	prices := []float64{5, 7, 6, 9, 11, 10, 12, 14, 13, 15}
	set, ok := MovingAverages(prices, 2, 4)
	if !ok {
		t.Fatalf("expected value")
	}
	earlier, _ := MovingAverages(prices[:len(prices)-1], 2, 4)
	if set.PrevShort != earlier.Short || set.PrevLong != earlier.Long {
		t.Fatalf("prev %+v does not match earlier %+v", set, earlier)
	}
}

func TestAverageRange(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
		period int
		want   float64
		ok     bool
	}{
		{"not enough data", []float64{100, 101, 102}, 3, 0, false},
		{"zero period", []float64{100, 101, 102}, 0, 0, false},
		{"flat", []float64{100, 100, 100, 100}, 3, 0, true},
		{"increasing", []float64{10, 11, 13, 16}, 3, 2, true},
		{"period one", []float64{10, 13, 9}, 1, 4, true},
	}
	for _, tc := range cases {
		got, ok := AverageRange(tc.prices, tc.period)
		if ok != tc.ok || !approx(got, tc.want, 1e-12) {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestVolatilityFractionRejectsNonPositiveLast(t *testing.T) {
	if _, ok := VolatilityFraction([]float64{10, 5, 0}, 2); ok {
		t.Fatalf("expected failure on zero last price")
	}
}

func TestVolatilityFloorFromHistory(t *testing.T) {
	if _, ok := VolatilityFloorFromHistory([]float64{100, 101, 102, 103}, 3, 0.4); ok {
		t.Fatalf("expected insufficient history")
	}

	prices := []float64{10, 11, 13, 16, 15}
	cases := []struct {
		percentile float64
		want       float64
	}{
		{0, 0.1153846},
		{1, 0.15625},
		{0.5, 0.1333333},
		{-1, 0.1153846},
		{2, 0.15625},
	}
	for _, tc := range cases {
		f, ok := VolatilityFloorFromHistory(prices, 2, tc.percentile)
		if !ok {
			t.Fatalf("p=%v: expected filter", tc.percentile)
		}
		if f.Period != 2 || !approx(f.Floor, tc.want, 1e-6) {
			t.Errorf("p=%v: got %+v, want floor %v", tc.percentile, f, tc.want)
		}
	}
}

func smallRegime() models.RegimeFilter {
	return models.RegimeFilter{LongWindow: 10, SlopeWindow: 5, MinTrendStrength: 0.02, MinRange: 0.03}
}

func TestDetectRegime(t *testing.T) {
	down := series(80, 100)
	for i, j := 0, len(down)-1; i < j; i, j = i+1, j-1 {
		down[i], down[j] = down[j], down[i]
	}

	cases := []struct {
		name   string
		prices []float64
		filter func(models.RegimeFilter) models.RegimeFilter
		want   models.Regime
	}{
		{
			name:   "not enough history",
			prices: series(100, 109),
			want:   models.RegimeSideways,
		},
		{
			name:   "long sma zero",
			prices: []float64{100, 101, 102, 0, 0, 0, 0},
			filter: func(f models.RegimeFilter) models.RegimeFilter { f.LongWindow, f.SlopeWindow = 4, 2; return f },
			want:   models.RegimeSideways,
		},
		{
			name:   "non-positive start price",
			prices: []float64{100, 101, 0, 102, 103},
			filter: func(f models.RegimeFilter) models.RegimeFilter { f.LongWindow, f.SlopeWindow = 4, 2; return f },
			want:   models.RegimeSideways,
		},
		{
			name:   "flat noise",
			prices: []float64{100, 100.1, 99.9, 100, 100.2, 99.8, 100.1, 100, 100.1, 99.9, 100, 100.1, 100},
			want:   models.RegimeSideways,
		},
		{
			name:   "uptrend",
			prices: series(100, 120),
			filter: func(f models.RegimeFilter) models.RegimeFilter { f.MinTrendStrength, f.MinRange = 0.01, 0.01; return f },
			want:   models.RegimeTrendingUp,
		},
		{
			name:   "downtrend",
			prices: down,
			filter: func(f models.RegimeFilter) models.RegimeFilter { f.MinTrendStrength, f.MinRange = 0.01, 0.01; return f },
			want:   models.RegimeTrendingDown,
		},
		{
			name:   "trend too weak",
			prices: []float64{100, 100.1, 100.2, 100.3, 100.4, 100.5, 100.6, 100.7, 100.8, 100.9, 101, 101.1},
			filter: func(f models.RegimeFilter) models.RegimeFilter { f.MinTrendStrength = 0.05; return f },
			want:   models.RegimeSideways,
		},
		{
			name:   "range too small",
			prices: []float64{100, 100.5, 100.6, 100.7, 100.8, 101, 101.1, 101.2, 101.3, 101.4, 101.5},
			filter: func(f models.RegimeFilter) models.RegimeFilter { f.MinTrendStrength, f.MinRange = 0, 0.05; return f },
			want:   models.RegimeSideways,
		},
		{
			name:   "direction conflicts with long sma",
			prices: []float64{50, 60, 70, 80, 90, 95, 100, 140, 130, 110},
			filter: func(f models.RegimeFilter) models.RegimeFilter {
				f.LongWindow, f.SlopeWindow, f.MinTrendStrength, f.MinRange = 4, 3, 0.01, 0.01
				return f
			},
			want: models.RegimeSideways,
		},
	}

	for _, tc := range cases {
		f := smallRegime()
		if tc.filter != nil {
			f = tc.filter(f)
		}
		if got := DetectRegime(tc.prices, f); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
