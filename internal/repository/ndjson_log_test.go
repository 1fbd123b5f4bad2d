package repository

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"SignalSweep/internal/domain/models"
)

func TestNDJSONLogAppends(t *testing.T) {
	var buf bytes.Buffer
	l := NewNDJSONLog(&buf, nil)

	profit := 12.5
	if err := l.AppendPosition(models.PositionEvent{RunID: "r1", Type: "position_closed", Position: models.Position{Side: models.SideShort, Profit: &profit}}); err != nil {
		t.Fatalf("AppendPosition: %v", err)
	}
	if err := l.AppendTrade(models.TradeEvent{RunID: "r1", Type: "trade", Trade: models.Trade{Profit: 3}}); err != nil {
		t.Fatalf("AppendTrade: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var first map[string]interface{}
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("line 0: %v", err)
	}
	if first["run_id"] != "r1" || first["type"] != "position_closed" {
		t.Fatalf("line 0 = %v", first)
	}
	pos := first["position"].(map[string]interface{})
	if pos["side"] != "short" || pos["profit"] != 12.5 {
		t.Fatalf("position = %v", pos)
	}
}

func TestNDJSONLogConcurrentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	l, err := OpenNDJSONLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_ = l.AppendTrade(models.TradeEvent{RunID: "r", Type: "trade"})
			}
		}()
	}
	wg.Wait()
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if !json.Valid(sc.Bytes()) {
			t.Fatalf("invalid line %d: %s", n, sc.Text())
		}
		n++
	}
	if n != 200 {
		t.Fatalf("expected 200 lines, got %d", n)
	}
}
