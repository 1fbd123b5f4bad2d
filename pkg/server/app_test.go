package server

import (
	"context"
	"testing"
	"time"

	"SignalSweep/pkg/config"
	xhttp "SignalSweep/pkg/http"
	applogger "SignalSweep/pkg/logger"
)

func TestServeStopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Port = 0
	srv := xhttp.NewServer(nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetrics(false),
		xhttp.WithTimeouts(time.Second, time.Second, time.Second),
	)
	app := New(cfg, applogger.Nop(), srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}
