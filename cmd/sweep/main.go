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
	mode := flag.String("mode", "", "position or spot, overrides sweep.mode")
	sampleHours := flag.Int("sample-hours", 0, "resampling step in hours, overrides data.sample_hours")
	workers := flag.Int("workers", -1, "worker count, 0 = NumCPU, overrides sweep.workers")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *input != "" {
		cfg.Data.Input = *input
	}
	if *mode != "" {
		cfg.Sweep.Mode = models.Mode(*mode)
	}
	if *sampleHours > 0 {
		cfg.Data.SampleHours = *sampleHours
	}
	if *workers >= 0 {
		cfg.Sweep.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	runner, cleanup, err := di.InitializeRunner(cfg)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	// Interrupt cancels the sweep at the next job boundary.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rep, err := runner.Sweep(ctx, usecase.SweepParams{
		SampleHours: cfg.Data.SampleHours,
		Settings:    cfg.Sweep.SimulationSettings,
		Workers:     cfg.Sweep.Workers,
		Space:       cfg.Sweep.Space,
	}, nil)
	stop()
	if err == nil {
		err = cli.PrintSweep(os.Stdout, rep)
	}
	cleanup()
	if err != nil {
		log.Printf("sweep failed: %v", err)
		os.Exit(1)
	}
}
