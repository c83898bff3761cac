// Package parse recovers a JSON object from a free-form oracle reply. The
// reply should be a bare JSON object but is routinely wrapped in markdown
// fences, prefixed with prose, or truncated; Parse peels those layers off
// with progressively more aggressive cleanup and degrades to an empty map
// rather than failing.
package parse

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/marketsense/jobbrief/internal/metrics"
)

// DefaultMaxRetries bounds the extra cleanup attempts beyond the first
// strict parse, so pathological input cannot cause unbounded work.
const DefaultMaxRetries = 2

var (
	reFenceOpen  = regexp.MustCompile("(?im)^```(?:json)?[ \t]*\r?\n")
	reFenceClose = regexp.MustCompile("(?m)\r?\n?[ \t]*```[ \t]*$")
)

// preambles the oracle sometimes emits before the payload.
var preambles = []string{
	"Here's the JSON:",
	"Here is the JSON:",
	"JSON:",
	"Response:",
	"Result:",
}

type Parser struct {
	sink       metrics.Sink
	log        *slog.Logger
	maxRetries int
}

func New(sink metrics.Sink, logger *slog.Logger) *Parser {
	if sink == nil {
		sink = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{sink: sink, log: logger, maxRetries: DefaultMaxRetries}
}

// Parse extracts a JSON object from raw. It never fails: after all recovery
// attempts it returns an empty map, which downstream treats as "no
// information extracted". Terminal failures are reported to the metrics sink
// with enough context to diagnose prompt drift.
func (p *Parser) Parse(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}

	candidate := raw
	attempts := 0
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		attempts++

		cleaned := strings.TrimSpace(candidate)
		cleaned = reFenceOpen.ReplaceAllString(cleaned, "")
		cleaned = reFenceClose.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		for _, prefix := range preambles {
			if strings.HasPrefix(cleaned, prefix) {
				cleaned = strings.TrimSpace(cleaned[len(prefix):])
			}
		}

		if m, ok := tryParse(cleaned); ok {
			return m
		}

		if attempt < p.maxRetries {
			// More aggressive: take the widest {...} span of the original,
			// then the widest [...] span.
			if span := widestSpan(raw, '{', '}'); span != "" && span != candidate {
				candidate = span
				continue
			}
			if span := widestSpan(raw, '[', ']'); span != "" && span != candidate {
				candidate = span
				continue
			}
		}
	}

	p.log.Warn("parse.final_error", "input_len", len(raw), "attempts", attempts)
	p.sink.Log("json_parse_final_error", map[string]any{
		"original_length": len(raw),
		"attempts":        attempts,
	})
	return map[string]any{}
}

// tryParse accepts an object, or an array whose sole element is an object
// (a shape some replies use for no reason).
func tryParse(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		if len(t) == 1 {
			if m, ok := t[0].(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func widestSpan(s string, open, close byte) string {
	lo := strings.IndexByte(s, open)
	hi := strings.LastIndexByte(s, close)
	if lo < 0 || hi <= lo {
		return ""
	}
	return s[lo : hi+1]
}
