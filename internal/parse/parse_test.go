package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketsense/jobbrief/internal/metrics"
)

func newParser() *Parser {
	return New(metrics.Nop{}, nil)
}

func TestParseBareJSON(t *testing.T) {
	got := newParser().Parse(`{"role": "Data Scientist", "salary_low": 120000}`)
	require.Equal(t, "Data Scientist", got["role"])
	require.Equal(t, float64(120000), got["salary_low"])
}

func TestParseMarkdownFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"role\": \"Data Scientist\"}\n```"},
		{"plain fence", "```\n{\"role\": \"Data Scientist\"}\n```"},
		{"fence with surrounding prose", "Sure. Here is what I found.\n```json\n{\"role\": \"Data Scientist\"}\n```\nLet me know if you need more."},
		{"preamble", "Here's the JSON: {\"role\": \"Data Scientist\"}"},
		{"result preamble", "Result:\n{\"role\": \"Data Scientist\"}"},
		{"trailing noise", "{\"role\": \"Data Scientist\"} -- extracted with confidence"},
		{"leading noise", "As requested, the data extracted is {\"role\": \"Data Scientist\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newParser().Parse(tt.raw)
			require.Equal(t, map[string]any{"role": "Data Scientist"}, got)
		})
	}
}

// Any JSON-serializable object wrapped in a fence with prose around it must
// round-trip through the parser.
func TestParseRoundTrip(t *testing.T) {
	src := map[string]any{
		"company":    "Acme",
		"role":       "Engineer",
		"salary_low": float64(90000),
		"must_have":  []any{"Go", "SQL"},
		"nested":     map[string]any{"a": true},
	}
	b, err := json.Marshal(src)
	require.NoError(t, err)

	raw := "Of course! Extraction complete.\n```json\n" + string(b) + "\n```\nHappy to help."
	got := newParser().Parse(raw)
	require.Equal(t, src, got)
}

func TestParseGarbageNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   \n  ",
		"not json at all",
		"{unbalanced",
		"}{",
		"[1, 2, 3",
		"{\"key\": }",
		"\x00\xff\xfe binary noise",
		"``````",
		"Here's the JSON:",
	}
	p := newParser()
	for _, in := range inputs {
		got := p.Parse(in)
		require.NotNil(t, got, "input %q", in)
		assert.Empty(t, got, "input %q", in)
	}
}

func TestParseArrayWithSingleObject(t *testing.T) {
	got := newParser().Parse(`the list: [{"role": "Engineer"}]`)
	require.Equal(t, map[string]any{"role": "Engineer"}, got)
}

func TestParseNonObjectJSON(t *testing.T) {
	// valid JSON that is not a usable mapping degrades to empty
	for _, in := range []string{`"a string"`, `42`, `[1, 2, 3]`, `true`} {
		got := newParser().Parse(in)
		assert.Empty(t, got, "input %q", in)
	}
}

type countingSink struct {
	events []string
}

func (c *countingSink) Log(event string, _ map[string]any) {
	c.events = append(c.events, event)
}

func TestParseReportsTerminalFailure(t *testing.T) {
	sink := &countingSink{}
	p := New(sink, nil)

	require.Empty(t, p.Parse("total garbage with no json"))
	require.Equal(t, []string{"json_parse_final_error"}, sink.events)

	// successful parses report nothing
	sink.events = nil
	p.Parse(`{"ok": true}`)
	require.Empty(t, sink.events)
}
