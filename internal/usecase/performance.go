package usecase

import (
	"gonum.org/v1/gonum/stat"

	"SignalSweep/internal/domain/models"
)

// MaxDrawdown is the largest relative decline from a running peak. The peak
// starts at the first point; points under a non-positive peak are ignored.
func MaxDrawdown(curve []models.EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0].Equity
	maxDD := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// PositionWinRate is the share of closed positions with a positive profit.
func PositionWinRate(positions []models.Position) float64 {
	if len(positions) == 0 {
		return 0
	}
	wins := 0
	for _, p := range positions {
		if p.RealizedProfit() > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(positions))
}

// TradeWinRate is the share of realized trades with a positive profit.
func TradeWinRate(trades []models.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.Profit > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}

// BuyAndHoldEquity converts all cash to coin at the first price and marks the
// holding at the last price.
func BuyAndHoldEquity(samples []models.Sample, initialCash, initialCoin float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	first := samples[0].Price
	last := samples[len(samples)-1].Price
	if first <= 0 {
		return 0, false
	}
	qty := initialCash/first + initialCoin
	return qty * last, true
}

// ComputeStats summarizes step-to-step equity returns. Sharpe is the
// unannualized mean/stddev ratio, 0 when the deviation is 0.
func ComputeStats(curve []models.EquityPoint) models.ResultStats {
	returns := make([]float64, 0, len(curve))
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev <= 0 {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}

	var st models.ResultStats
	switch len(returns) {
	case 0:
		return st
	case 1:
		st.StepReturnMean = returns[0]
		return st
	}

	st.StepReturnMean, st.StepReturnStdDev = stat.MeanStdDev(returns, nil)
	if st.StepReturnStdDev > 0 {
		st.Sharpe = st.StepReturnMean / st.StepReturnStdDev
	}
	return st
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
