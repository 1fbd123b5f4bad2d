// Command app serves signals, backtests and sweeps over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"

	"SignalSweep/internal/di"
	"SignalSweep/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "app: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	port := flag.Int("port", 0, "listen port, overrides server.port")
	check := flag.Bool("check", false, "validate the config and exit")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	if *check {
		fmt.Printf("config %s ok (environment %s, source %s)\n", *configPath, cfg.Environment, cfg.Data.Source)
		return nil
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()

	return app.Run()
}
