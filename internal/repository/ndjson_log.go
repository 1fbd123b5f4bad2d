package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
)

// NDJSONLog appends one JSON object per line. Safe for concurrent use.
type NDJSONLog struct {
	mu  sync.Mutex
	enc *json.Encoder
	c   io.Closer
}

// OpenNDJSONLog opens path in append mode, creating it if needed.
func OpenNDJSONLog(path string) (*NDJSONLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return NewNDJSONLog(f, f), nil
}

// NewNDJSONLog writes to w; c may be nil.
func NewNDJSONLog(w io.Writer, c io.Closer) *NDJSONLog {
	return &NDJSONLog{enc: json.NewEncoder(w), c: c}
}

func (l *NDJSONLog) append(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(v); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (l *NDJSONLog) AppendPosition(ev models.PositionEvent) error { return l.append(ev) }
func (l *NDJSONLog) AppendTrade(ev models.TradeEvent) error       { return l.append(ev) }

func (l *NDJSONLog) Close() error {
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}

var _ drepo.EventLog = (*NDJSONLog)(nil)
