package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"SignalSweep/internal/domain/models"
	domsvc "SignalSweep/internal/domain/service"
)

// fakeSimulator scores a candidate from its sizing fraction alone.
type fakeSimulator struct {
	score func(f float64) (ret, dd float64, err error)
}

func (s fakeSimulator) Run(_ []models.Sample, c models.Candidate) (*models.Result, error) {
	ret, dd, err := s.score(c.SizingFraction)
	if err != nil {
		return nil, err
	}
	return &models.Result{TotalReturnPct: ret, MaxDrawdownPct: dd}, nil
}

func fractionJobs(n int) []models.Candidate {
	jobs := make([]models.Candidate, n)
	for i := range jobs {
		jobs[i] = models.Candidate{SizingFraction: float64(i+1) / float64(n)}
	}
	return jobs
}

// peaked returns the highest return at f=0.5; two fractions share that
// return and differ only in drawdown.
func peaked(f float64) (float64, float64, error) {
	switch {
	case approx(f, 0.5):
		return 0.3, 0.10, nil
	case approx(f, 0.55):
		return 0.3, 0.05, nil
	case f > 0.9:
		return 0, 0, errors.New("rejected")
	}
	return f / 10, 0.2, nil
}

func TestBetter(t *testing.T) {
	r := func(ret, dd float64) *models.Result {
		return &models.Result{TotalReturnPct: ret, MaxDrawdownPct: dd}
	}
	cases := []struct {
		name       string
		cand, best *models.Result
		want       bool
	}{
		{"higher return", r(0.2, 0.5), r(0.1, 0.1), true},
		{"lower return", r(0.1, 0.0), r(0.2, 0.5), false},
		{"return within epsilon, lower drawdown", r(0.1+1e-12, 0.1), r(0.1, 0.2), true},
		{"return within epsilon, higher drawdown", r(0.1, 0.3), r(0.1, 0.2), false},
		{"exact tie keeps best", r(0.1, 0.2), r(0.1, 0.2), false},
	}
	for _, tc := range cases {
		if got := Better(tc.cand, tc.best); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFindBestIsOrderIndependent(t *testing.T) {
	factory := func() domsvc.Simulator { return fakeSimulator{score: peaked} }
	base := fractionJobs(20)

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 10; round++ {
		jobs := append([]models.Candidate(nil), base...)
		rng.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

		workers := 1 + round%4
		best, err := NewSweeper(factory, WithWorkers(workers)).FindBest(context.Background(), nil, jobs)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if !approx(best.Candidate.SizingFraction, 0.55) {
			t.Fatalf("round %d (workers=%d): best fraction = %v, want 0.55", round, workers, best.Candidate.SizingFraction)
		}
		if best.Result.TotalReturnPct != 0.3 || best.Result.MaxDrawdownPct != 0.05 {
			t.Fatalf("round %d: unexpected winner %+v", round, best.Result)
		}
		if best.Jobs != 20 || best.Failed != 2 {
			t.Fatalf("round %d: jobs=%d failed=%d", round, best.Jobs, best.Failed)
		}
	}
}

func TestFindBestAllFailed(t *testing.T) {
	factory := func() domsvc.Simulator {
		return fakeSimulator{score: func(float64) (float64, float64, error) { return 0, 0, errors.New("no") }}
	}
	_, err := NewSweeper(factory, WithWorkers(3)).FindBest(context.Background(), nil, fractionJobs(10))
	if !errors.Is(err, ErrNoValidResult) {
		t.Fatalf("err = %v, want ErrNoValidResult", err)
	}

	_, err = NewSweeper(factory).FindBest(context.Background(), nil, nil)
	if !errors.Is(err, ErrNoValidResult) {
		t.Fatalf("empty job list: err = %v", err)
	}
}

func TestFindBestProgressAndFactory(t *testing.T) {
	var built atomic.Int32
	factory := func() domsvc.Simulator {
		built.Add(1)
		return fakeSimulator{score: peaked}
	}
	obs := &recordingObserver{}

	_, err := NewSweeper(factory, WithWorkers(4), WithProgressObserver(obs)).
		FindBest(context.Background(), nil, fractionJobs(250))
	if err != nil {
		t.Fatalf("find best: %v", err)
	}
	if n := built.Load(); n < 1 || n > 4 {
		t.Fatalf("factory called %d times, want 1..4", n)
	}
	// every 2 jobs for 250 jobs
	if len(obs.progress) != 125 {
		t.Fatalf("progress reports = %d, want 125", len(obs.progress))
	}
	sawTotal := false
	for _, p := range obs.progress {
		if p[1] != 250 {
			t.Fatalf("total = %d, want 250", p[1])
		}
		if p[0] == 250 {
			sawTotal = true
		}
	}
	if !sawTotal {
		t.Fatalf("final progress report missing")
	}
}

func TestFindBestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	factory := func() domsvc.Simulator { return fakeSimulator{score: peaked} }
	_, err := NewSweeper(factory, WithWorkers(2)).FindBest(ctx, nil, fractionJobs(50))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSweepWithRealSimulator(t *testing.T) {
	engine := scriptedEngine{script: map[int]models.Action{3: models.ActionBuy}}
	factory, err := SimulatorFactory(models.SimulationSettings{Mode: models.ModePosition, InitialCash: 1000}, engine)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	strategies := []models.StrategyConfig{{MA: tinyMA, EnableBiasOnly: true}}
	jobs := GenerateJobs(strategies, 5, 1)

	best, err := NewSweeper(factory, WithWorkers(2)).FindBest(context.Background(), hourly(10, 10, 10, 20), jobs)
	if err != nil {
		t.Fatalf("find best: %v", err)
	}
	// price doubles after entry, so the largest fraction wins.
	if !approx(best.Candidate.SizingFraction, 1) || !approx(best.Result.FinalEquity, 2000) {
		t.Fatalf("unexpected best %+v / %+v", best.Candidate, best.Result)
	}
}
