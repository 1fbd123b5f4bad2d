package usecase

import (
	"testing"

	"SignalSweep/internal/domain/models"
)

func TestGeneratePullbackPairs(t *testing.T) {
	pairs := GeneratePullbackPairs(0.001, 0.01, 0.001)
	if len(pairs) != 45 {
		t.Fatalf("pairs = %d, want 45", len(pairs))
	}
	for _, p := range pairs {
		if p.RejectTolerance <= p.BounceTolerance {
			t.Fatalf("reject must exceed bounce: %+v", p)
		}
	}
	last := pairs[len(pairs)-1]
	if !approx(last.BounceTolerance, 0.009) || !approx(last.RejectTolerance, 0.01) {
		t.Fatalf("last pair = %+v", last)
	}
	if got := GeneratePullbackPairs(0.01, 0.001, 0.001); len(got) != 0 {
		t.Fatalf("inverted range must be empty, got %d", len(got))
	}
}

func TestGenerateStrategies(t *testing.T) {
	space := models.SweepSpace{
		MAPairs:        []models.MAPair{{Short: 5, Long: 20}},
		MinLookback:    3,
		MaxLookback:    4,
		MinPullbackPct: 0.001,
		MaxPullbackPct: 0.003,
		PullbackStep:   0.001,
	}
	strategies, err := GenerateStrategies(space)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// masks: B=2 P=3 C=1 BP=6 BC=2 PC=3 BPC=6
	if len(strategies) != 23 {
		t.Fatalf("strategies = %d, want 23", len(strategies))
	}

	seen := make(map[string]bool)
	for _, s := range strategies {
		if !s.EnableBiasOnly {
			t.Fatalf("bias-only must always be on: %s", s.Describe())
		}
		if s.Breakout == nil && s.Pullback == nil && !s.EnableCrossovers {
			t.Fatalf("all toggles off must be skipped")
		}
		if s.MA.ShortWindow != 5 || s.MA.LongWindow != 20 {
			t.Fatalf("unexpected MA config %+v", s.MA)
		}
		d := s.Describe()
		if seen[d] {
			t.Fatalf("duplicate strategy %s", d)
		}
		seen[d] = true
	}
}

func TestGenerateStrategiesDefaults(t *testing.T) {
	strategies, err := GenerateStrategies(models.SweepSpace{
		MinLookback:    3,
		MaxLookback:    3,
		MinPullbackPct: 0.001,
		MaxPullbackPct: 0.002,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// one lookback, one pullback pair: 7 masks per pair
	if want := len(models.DefaultMAPairs()) * 7; len(strategies) != want {
		t.Fatalf("strategies = %d, want %d", len(strategies), want)
	}
}

func TestGenerateStrategiesSkipsNarrowPairs(t *testing.T) {
	space := models.SweepSpace{
		MAPairs:        []models.MAPair{{Short: 20, Long: 30}, {Short: 10, Long: 20}},
		MinLookback:    3,
		MaxLookback:    3,
		MinPullbackPct: 0.001,
		MaxPullbackPct: 0.002,
	}
	strategies, err := GenerateStrategies(space)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(strategies) != 7 {
		t.Fatalf("strategies = %d, want 7", len(strategies))
	}
	for _, s := range strategies {
		if s.MA.ShortWindow != 10 || s.MA.LongWindow != 20 {
			t.Fatalf("pair %+v should have been filtered", s.MA)
		}
	}

	space.MAPairs = []models.MAPair{{Short: 20, Long: 30}}
	if _, err := GenerateStrategies(space); err == nil {
		t.Fatalf("expected empty sweep space error")
	}
}

func TestGenerateStrategiesRejectsBadLookback(t *testing.T) {
	if _, err := GenerateStrategies(models.SweepSpace{MinLookback: 5, MaxLookback: 2}); err == nil {
		t.Fatalf("expected error for inverted lookback range")
	}
}

func TestGenerateJobs(t *testing.T) {
	strategies := []models.StrategyConfig{{MA: tinyMA}, {MA: tinyMA, EnableBiasOnly: true}}
	jobs := GenerateJobs(strategies, 4, 0.5)
	if len(jobs) != 8 {
		t.Fatalf("jobs = %d, want 8", len(jobs))
	}
	want := []float64{0.125, 0.25, 0.375, 0.5}
	for i, w := range want {
		if !approx(jobs[i].SizingFraction, w) {
			t.Fatalf("fraction[%d] = %v, want %v", i, jobs[i].SizingFraction, w)
		}
	}
	if !jobs[4].Strategy.EnableBiasOnly {
		t.Fatalf("jobs must be grouped per strategy")
	}
}

func TestDefaultMAPairs(t *testing.T) {
	pairs := models.DefaultMAPairs()
	if len(pairs) != 13 {
		t.Fatalf("pairs = %d, want 13", len(pairs))
	}
	for _, p := range pairs {
		if p.Long < 2*p.Short {
			t.Fatalf("pair %+v violates long >= 2*short", p)
		}
	}
}
