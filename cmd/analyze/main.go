package main

import (
	"context"
	"flag"
	"log"
	"os"

	"SignalSweep/internal/di"
	"SignalSweep/internal/handler/cli"
	"SignalSweep/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	input := flag.String("input", "", "CSV input, overrides data.input")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *input != "" {
		cfg.Data.Input = *input
	}

	runner, cleanup, err := di.InitializeRunner(cfg)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	strategy := cfg.Backtest.Strategy
	a, err := runner.Signal(context.Background(), cfg.Data.SampleHours, strategy)
	if err == nil {
		err = cli.PrintAnalysis(os.Stdout, strategy, a)
	}
	cleanup()
	if err != nil {
		log.Printf("analyze failed: %v", err)
		os.Exit(1)
	}
}
