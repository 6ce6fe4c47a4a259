// Package audit records reconciliation passes. Events are stored as JSON
// Lines (JSONL), one pass per line, in a single history file.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/proxyctl/internal/reconcile"
)

// LayerEvent is the outcome of one layer within a pass.
type LayerEvent struct {
	Layer    string `json:"layer"`
	Outcome  string `json:"outcome"`
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Event represents a single history entry.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	Pass      string       `json:"pass"`
	Intent    string       `json:"intent"`
	Endpoint  string       `json:"endpoint,omitempty"`
	Phase     string       `json:"phase"`
	Warning   string       `json:"warning,omitempty"`
	Layers    []LayerEvent `json:"layers"`
}

// FromResult converts a pass result into an Event. Endpoints are stored
// with their passwords redacted.
func FromResult(res *reconcile.Result, at time.Time) Event {
	e := Event{
		Timestamp: at,
		Pass:      res.ID,
		Intent:    res.Intent.Kind.String(),
		Phase:     res.Phase.String(),
		Warning:   res.Warning,
		Layers:    make([]LayerEvent, 0, len(res.Outcomes)),
	}
	if res.Intent.Endpoint != nil {
		e.Endpoint = res.Intent.Endpoint.Redacted()
	}
	for _, o := range res.Outcomes {
		le := LayerEvent{
			Layer:   string(o.Layer),
			Outcome: o.Kind.String(),
			Enabled: o.Target.Enabled,
		}
		if o.Target.Endpoint != nil {
			le.Endpoint = o.Target.Endpoint.Redacted()
		}
		if o.Reason != nil {
			le.Reason = o.Reason.Error()
		}
		e.Layers = append(e.Layers, le)
	}
	return e
}

// Logger appends events to and reads them from a history file.
type Logger struct {
	path string
}

// NewLogger creates a logger writing to path.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Path returns the history file location.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an event to the history.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Record logs a pass result stamped with the current time.
func (l *Logger) Record(res *reconcile.Result) error {
	return l.Log(FromResult(res, time.Now()))
}

// Events reads all events in chronological order.
func (l *Logger) Events() ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading history: %w", err)
	}

	return events, nil
}

// Tail returns the last n events, or all of them when n <= 0.
func (l *Logger) Tail(n int) ([]Event, error) {
	events, err := l.Events()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

// Clear deletes the history.
func (l *Logger) Clear() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
