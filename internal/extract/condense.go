package extract

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/marketsense/jobbrief/constants"
	"github.com/marketsense/jobbrief/internal/chunk"
	"github.com/marketsense/jobbrief/internal/common"
	"github.com/marketsense/jobbrief/internal/metrics"
	"github.com/marketsense/jobbrief/internal/oracle"
	"github.com/marketsense/jobbrief/internal/token"
)

// Condenser shrinks a document that would overflow the oracle's context
// budget: token-bounded chunks are summarized concurrently and the summaries
// concatenated back in document order. Condensing is deliberately lossy —
// a chunk whose summarization fails is dropped rather than failing the run.
type Condenser struct {
	primary  oracle.Oracle
	fallback oracle.Oracle
	counter  *token.Counter
	cfg      common.ExtractionConfig
	model    string
	sink     metrics.Sink
	log      *slog.Logger
}

func NewCondenser(primary, fallback oracle.Oracle, counter *token.Counter, cfg common.ExtractionConfig, model string, sink metrics.Sink, logger *slog.Logger) *Condenser {
	if counter == nil {
		counter = token.NewCounter()
	}
	if sink == nil {
		sink = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Condenser{
		primary:  primary,
		fallback: fallback,
		counter:  counter,
		cfg:      cfg,
		model:    model,
		sink:     sink,
		log:      logger,
	}
}

// Condense returns raw unchanged when it fits the context budget; otherwise
// it returns the concatenated chunk summaries. Errors are config mistakes
// only; oracle failures degrade to dropped chunks.
func (c *Condenser) Condense(ctx context.Context, raw string) (string, error) {
	totalTokens := c.counter.Count(raw, c.model)
	if totalTokens <= c.cfg.CondenseThresholdTokens {
		return raw, nil
	}

	c.sink.Log("long_text_processing_start", map[string]any{
		"original_tokens": totalTokens,
		"threshold":       c.cfg.CondenseThresholdTokens,
	})

	chunks, err := chunk.SplitByTokens(raw, c.cfg.CondenseChunkTokens, c.cfg.CondenseOverlapTokens, func(s string) int {
		return c.counter.Count(s, c.model)
	})
	if err != nil {
		return "", common.WrapError(err, "condense: chunking")
	}
	c.sink.Log("chunking_required", map[string]any{
		"total_tokens": totalTokens,
		"max_tokens":   c.cfg.CondenseChunkTokens,
		"chunks":       len(chunks),
	})

	summaries := make([]string, len(chunks))
	succeeded := make([]bool, len(chunks))

	var g errgroup.Group
	if c.cfg.MaxInFlight > 0 {
		g.SetLimit(c.cfg.MaxInFlight)
	}
	for i, ch := range chunks {
		g.Go(func() error {
			system, user := SummarizePrompts(ch)
			resp, err := c.complete(ctx, oracle.Request{
				System:      system,
				User:        user,
				Temperature: 0,
				MaxTokens:   constants.MaxTokensSummarize,
				Timeout:     c.cfg.SummarizeTimeout,
			})
			if err != nil {
				c.log.Warn("condense.chunk.failed", "chunk_index", i, "error", err)
				c.sink.Log("chunk_summary_error", map[string]any{"chunk_index": i, "error": err.Error()})
				return nil
			}
			if strings.TrimSpace(resp) == "" {
				return nil
			}
			summaries[i] = resp
			succeeded[i] = true
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]string, 0, len(summaries))
	for i, s := range summaries {
		if succeeded[i] {
			kept = append(kept, s)
		}
	}
	c.sink.Log("chunking_completed", map[string]any{
		"chunks":     len(chunks),
		"successful": len(kept),
	})

	condensed := strings.Join(kept, "\n\n")
	finalTokens := c.counter.Count(condensed, c.model)

	fields := map[string]any{
		"original_tokens":      totalTokens,
		"final_tokens":         finalTokens,
		"chunks_processed":     len(chunks),
		"successful_summaries": len(kept),
	}
	if totalTokens > 0 {
		fields["compression_ratio"] = float64(finalTokens) / float64(totalTokens)
	}
	c.sink.Log("long_text_processing_complete", fields)

	return condensed, nil
}

func (c *Condenser) complete(ctx context.Context, req oracle.Request) (string, error) {
	resp, err := timedCall(ctx, c.primary, c.sink, req)
	if err == nil {
		return resp, nil
	}
	if c.fallback == nil {
		return "", err
	}
	c.sink.Log("fallback_attempt", map[string]any{"error": err.Error()})
	return timedCall(ctx, c.fallback, c.sink, req)
}
