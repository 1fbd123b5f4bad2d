package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"SignalSweep/internal/domain/models"
	"SignalSweep/internal/usecase"
)

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func pct(ratio float64) string {
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(2) + "%"
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

// PrintAnalysis writes the latest-signal report.
func PrintAnalysis(w io.Writer, strategy models.StrategyConfig, a *models.Analysis) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Strategy:\t%s\n", a.Strategy)
	fmt.Fprintf(tw, "Last timestamp:\t%s\n", a.Last.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(tw, "Last price:\t%s\n", price(a.Last.Price))
	fmt.Fprintf(tw, "SMA(%d):\t%s\n", strategy.MA.ShortWindow, price(a.Averages.Short))
	fmt.Fprintf(tw, "SMA(%d):\t%s\n", strategy.MA.LongWindow, price(a.Averages.Long))
	fmt.Fprintf(tw, "Prev SMA(%d):\t%s\n", strategy.MA.ShortWindow, price(a.Averages.PrevShort))
	fmt.Fprintf(tw, "Prev SMA(%d):\t%s\n", strategy.MA.LongWindow, price(a.Averages.PrevLong))
	fmt.Fprintf(tw, "Suggestion:\t%s\n", a.Decision.Action)
	fmt.Fprintf(tw, "Reason:\t%s\n", a.Decision.Reason)
	return tw.Flush()
}

func printResult(tw io.Writer, res *models.Result) {
	fmt.Fprintf(tw, "Mode:\t%s\n", res.Mode)
	fmt.Fprintf(tw, "Initial equity:\t%s\n", money(res.InitialEquity))
	fmt.Fprintf(tw, "Final equity:\t%s\n", money(res.FinalEquity))
	fmt.Fprintf(tw, "Total return:\t%s\n", pct(res.TotalReturnPct))
	fmt.Fprintf(tw, "Max drawdown:\t%s\n", pct(res.MaxDrawdownPct))
	if res.Mode == models.ModeSpot {
		fmt.Fprintf(tw, "Trades:\t%d\n", len(res.Trades))
	} else {
		fmt.Fprintf(tw, "Positions:\t%d\n", len(res.Positions))
	}
	fmt.Fprintf(tw, "Win rate:\t%s\n", pct(res.WinRatePct))
	fmt.Fprintf(tw, "Sharpe (per step):\t%s\n", decimal.NewFromFloat(res.Stats.Sharpe).StringFixed(4))
}

func printBuyAndHold(tw io.Writer, bh *usecase.BuyAndHold) {
	if bh == nil {
		fmt.Fprintf(tw, "Buy & hold:\tn/a\n")
		return
	}
	fmt.Fprintf(tw, "Buy & hold final equity:\t%s (%s)\n", money(bh.Equity), pct(bh.ReturnPct))
}

// PrintBacktest writes the summary of a single run; the equity curve is
// appended when printCurve is set.
func PrintBacktest(w io.Writer, rep *usecase.BacktestReport, printCurve bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "=== Backtest Summary ===")
	fmt.Fprintf(tw, "Run:\t%s\n", rep.RunID)
	fmt.Fprintf(tw, "Samples:\t%d\n", rep.Samples)
	fmt.Fprintf(tw, "Strategy:\t%s\n", rep.Candidate.Strategy.Describe())
	fmt.Fprintf(tw, "Sizing fraction:\t%s\n", decimal.NewFromFloat(rep.Candidate.SizingFraction).StringFixed(2))
	printResult(tw, rep.Result)
	printBuyAndHold(tw, rep.BuyAndHold)
	if err := tw.Flush(); err != nil {
		return err
	}
	if printCurve {
		return PrintCurve(w, rep.Result.EquityCurve)
	}
	return nil
}

// PrintSweep writes the winning configuration of a sweep.
func PrintSweep(w io.Writer, rep *usecase.SweepReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "=== Best configuration ===")
	fmt.Fprintf(tw, "Run:\t%s\n", rep.RunID)
	fmt.Fprintf(tw, "Samples:\t%d\n", rep.Samples)
	if rep.Cached {
		fmt.Fprintf(tw, "Source:\tcache\n")
	} else {
		fmt.Fprintf(tw, "Jobs:\t%d (%d failed) in %s\n", rep.Best.Jobs, rep.Best.Failed, rep.Took.Round(time.Millisecond))
	}
	fmt.Fprintf(tw, "Strategy:\t%s\n", rep.Best.Candidate.Strategy.Describe())
	fmt.Fprintf(tw, "Sizing fraction:\t%s\n", decimal.NewFromFloat(rep.Best.Candidate.SizingFraction).StringFixed(2))
	printResult(tw, rep.Best.Result)
	printBuyAndHold(tw, rep.BuyAndHold)
	return tw.Flush()
}

// PrintCurve writes one "timestamp equity" line per point.
func PrintCurve(w io.Writer, curve []models.EquityPoint) error {
	for _, p := range curve {
		if _, err := fmt.Fprintf(w, "%s %s\n", p.Timestamp.Format(time.RFC3339), money(p.Equity)); err != nil {
			return err
		}
	}
	return nil
}
