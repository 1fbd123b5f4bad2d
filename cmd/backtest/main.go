package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SignalSweep/internal/di"
	"SignalSweep/internal/domain/models"
	"SignalSweep/internal/handler/cli"
	"SignalSweep/internal/usecase"
	"SignalSweep/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	input := flag.String("input", "", "CSV input, overrides data.input")
	mode := flag.String("mode", "", "position or spot, overrides backtest.mode")
	sampleHours := flag.Int("sample-hours", 0, "resampling step in hours, overrides data.sample_hours")
	fraction := flag.Float64("fraction", -1, "sizing fraction, overrides backtest.sizing_fraction")
	curve := flag.Bool("curve", false, "print the equity curve")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *input != "" {
		cfg.Data.Input = *input
	}
	if *mode != "" {
		cfg.Backtest.Mode = models.Mode(*mode)
	}
	if *sampleHours > 0 {
		cfg.Data.SampleHours = *sampleHours
	}
	if *fraction >= 0 {
		cfg.Backtest.SizingFraction = *fraction
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	runner, cleanup, err := di.InitializeRunner(cfg)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rep, err := runner.Backtest(ctx, usecase.BacktestParams{
		SampleHours:     cfg.Data.SampleHours,
		Settings:        cfg.Backtest.SimulationSettings,
		SizingFraction:  cfg.Backtest.SizingFraction,
		Strategy:        cfg.Backtest.Strategy,
		FloorPercentile: cfg.Backtest.FloorPercentile,
	})
	stop()
	if err == nil {
		err = cli.PrintBacktest(os.Stdout, rep, *curve || cfg.Output.PrintCurve)
	}
	cleanup()
	if err != nil {
		log.Printf("backtest failed: %v", err)
		os.Exit(1)
	}
}
