// Package metrics is a fire-and-forget event sink for the extraction
// pipeline. Sinks are best-effort: a failing sink must never surface an
// error into extraction control flow, so Log returns nothing and
// implementations swallow their own failures.
package metrics

import "log/slog"

// Sink receives named events with free-form fields.
type Sink interface {
	Log(event string, fields map[string]any)
}

// SlogSink emits one structured log line per event.
type SlogSink struct {
	log *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{log: logger}
}

func (s *SlogSink) Log(event string, fields map[string]any) {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	s.log.Info("metrics."+event, attrs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Log(string, map[string]any) {}
