package clickhouse

import (
	"testing"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
)

func TestConfigOptions(t *testing.T) {
	o := Config{
		Host:        "ch.internal",
		Port:        9440,
		Database:    "market",
		User:        "reader",
		DialTimeout: time.Second,
		MaxExecTime: 90 * time.Second,
		Compress:    true,
	}.options()

	if len(o.Addr) != 1 || o.Addr[0] != "ch.internal:9440" {
		t.Fatalf("addr = %v", o.Addr)
	}
	if o.Auth.Database != "market" || o.Auth.Username != "reader" {
		t.Fatalf("auth = %+v", o.Auth)
	}
	if o.Settings["max_execution_time"] != 90 {
		t.Fatalf("settings = %v", o.Settings)
	}
	if o.Compression == nil || o.Compression.Method != ch.CompressionLZ4 {
		t.Fatalf("compression = %+v", o.Compression)
	}

	plain := Config{Host: "h", Port: 9000}.options()
	if plain.Compression != nil || len(plain.Settings) != 0 {
		t.Fatalf("unexpected options: %+v", plain)
	}
}
