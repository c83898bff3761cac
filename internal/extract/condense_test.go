package extract

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketsense/jobbrief/internal/common"
	"github.com/marketsense/jobbrief/internal/metrics"
	"github.com/marketsense/jobbrief/internal/oracle"
	"github.com/marketsense/jobbrief/internal/token"
)

// condenseCfg shrinks the token budgets so short fixtures overflow them.
func condenseCfg() common.ExtractionConfig {
	cfg := testCfg()
	cfg.CondenseThresholdTokens = 60
	cfg.CondenseChunkTokens = 40
	cfg.CondenseOverlapTokens = 5
	return cfg
}

func newTestCondenser(o oracle.Oracle, cfg common.ExtractionConfig) *Condenser {
	return NewCondenser(o, nil, token.NewCounter(), cfg, "test-model", metrics.Nop{}, nil)
}

func longDoc() string {
	para := strings.TrimSpace(strings.Repeat("facts about the position and the company stack ", 5)) // ~35 words
	return strings.Repeat(para+"\n\n", 6)
}

func TestCondenseNoOpUnderThreshold(t *testing.T) {
	fake := &fakeOracle{}
	c := newTestCondenser(fake, testCfg())

	raw := "A short job posting."
	got, err := c.Condense(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got, "under-threshold input must pass through unchanged")
	assert.Equal(t, 0, fake.callCount(), "no oracle calls for a no-op condensation")
}

func TestCondenseIdempotentOnItsOwnOutput(t *testing.T) {
	fake := &fakeOracle{reply: func(oracle.Request) (string, error) {
		return "short summary", nil
	}}
	c := newTestCondenser(fake, condenseCfg())

	once, err := c.Condense(context.Background(), longDoc())
	require.NoError(t, err)
	twice, err := c.Condense(context.Background(), once)
	require.NoError(t, err)
	assert.Equal(t, once, twice, "condensed output fits the budget and passes through")
}

func TestCondenseSummarizesChunksInOrder(t *testing.T) {
	// distinguish replies by which ordinal marker the chunk contains, and
	// make the first chunk the slowest so ordering cannot come from
	// completion order
	doc := "ONE alpha facts repeated here many many times over.\n\n" +
		strings.TrimSpace(strings.Repeat("filler words to overflow the tiny token budget ", 8)) + "\n\n" +
		"TWO bravo facts close the document."

	fake := &fakeOracle{reply: func(req oracle.Request) (string, error) {
		switch {
		case strings.Contains(req.User, "ONE"):
			time.Sleep(80 * time.Millisecond)
			return "summary-one", nil
		case strings.Contains(req.User, "TWO"):
			return "summary-two", nil
		default:
			return "summary-middle", nil
		}
	}}
	c := newTestCondenser(fake, condenseCfg())

	got, err := c.Condense(context.Background(), doc)
	require.NoError(t, err)

	one := strings.Index(got, "summary-one")
	two := strings.Index(got, "summary-two")
	require.GreaterOrEqual(t, one, 0)
	require.Greater(t, two, one, "summaries must keep document order")
	assert.NotContains(t, got, "filler words", "chunk bodies are replaced by summaries")
}

func TestCondenseDropsFailedChunks(t *testing.T) {
	doc := "ONE alpha facts repeated here many many times over.\n\n" +
		strings.TrimSpace(strings.Repeat("filler words to overflow the tiny token budget ", 8)) + "\n\n" +
		"TWO bravo facts close the document."

	fake := &fakeOracle{reply: func(req oracle.Request) (string, error) {
		if strings.Contains(req.User, "ONE") {
			return "", &oracle.CallError{Message: "rate limited"}
		}
		return "kept-summary", nil
	}}
	c := newTestCondenser(fake, condenseCfg())

	got, err := c.Condense(context.Background(), doc)
	require.NoError(t, err, "a failed chunk is dropped, not fatal")
	assert.NotContains(t, got, "summary-one")
	assert.Contains(t, got, "kept-summary")
}

func TestCondenseAllChunksFailing(t *testing.T) {
	fake := &fakeOracle{reply: func(oracle.Request) (string, error) {
		return "", &oracle.CallError{Message: "oracle down"}
	}}
	c := newTestCondenser(fake, condenseCfg())

	got, err := c.Condense(context.Background(), longDoc())
	require.NoError(t, err)
	assert.Empty(t, got, "losing every chunk degrades to an empty document")
}
