// Package logging provides leveled logging and session tracing for
// rigpreview. It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A SessionTrace for structured JSONL session events (.rigpreview/session_trace.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for full content logging.
// At this level, per-property capture/diff decisions are included.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SessionTrace writes structured session events to a JSONL file: state
// transitions, suppressed hooks, skipped properties, apply results. It is
// safe for concurrent use. A nil SessionTrace is safe to use; all methods
// are no-ops on nil receiver.
type SessionTrace struct {
	mu   sync.Mutex
	file *os.File
}

// NewSessionTrace creates a session trace writing to dir/session_trace.jsonl.
// At "info" level (the default), returns nil — no file is created.
// At "debug" or "trace" level, the file is opened for append.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewSessionTrace(dir string, level string) *SessionTrace {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "session_trace.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &SessionTrace{file: f}
}

// Event writes one trace event as a single JSONL line. "time" and "event"
// fields are added automatically. The caller's map is not mutated.
// Safe to call on nil receiver.
func (st *SessionTrace) Event(kind string, fields map[string]any) {
	if st == nil || st.file == nil {
		return
	}

	// Copy to avoid mutating caller's map
	entry := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["event"] = kind
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = st.file.Write(data)
}

// Transition records a session state change.
func (st *SessionTrace) Transition(session, from, to string) {
	st.Event("transition", map[string]any{"session": session, "from": from, "to": to})
}

// Suppressed records one disabled automation hook.
func (st *SessionTrace) Suppressed(session, name, owner string) {
	st.Event("suppressed", map[string]any{"session": session, "hook": name, "owner": owner})
}

// Skipped records a recoverable per-item skip during capture, diff or apply.
func (st *SessionTrace) Skipped(session, stage, key, path, reason string) {
	st.Event("skipped", map[string]any{
		"session": session, "stage": stage, "key": key, "path": path, "reason": reason,
	})
}

// Applied records the outcome of re-applying one change entry.
func (st *SessionTrace) Applied(session, key, path string, ok bool) {
	st.Event("applied", map[string]any{"session": session, "key": key, "path": path, "ok": ok})
}

// Close closes the underlying file. Safe to call on nil receiver.
func (st *SessionTrace) Close() {
	if st == nil || st.file == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.file.Close()
	st.file = nil
}
