// Package extract orchestrates the chunked extraction pipeline: split the
// document, fan one oracle call out per chunk, parse each reply defensively,
// and merge the partial records back in document order.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marketsense/jobbrief/constants"
	"github.com/marketsense/jobbrief/internal/chunk"
	"github.com/marketsense/jobbrief/internal/common"
	"github.com/marketsense/jobbrief/internal/metrics"
	"github.com/marketsense/jobbrief/internal/oracle"
	"github.com/marketsense/jobbrief/internal/parse"
	"github.com/marketsense/jobbrief/internal/record"
	"github.com/marketsense/jobbrief/internal/token"
)

// Pipeline is the public entry point of the extraction core. Construct one
// per process (or per test) and share it; it holds no per-invocation state.
type Pipeline struct {
	primary  oracle.Oracle
	fallback oracle.Oracle // optional second endpoint, may be nil
	parser   *parse.Parser
	cfg      common.ExtractionConfig
	model    string
	sink     metrics.Sink
	log      *slog.Logger

	condenser *Condenser
}

func NewPipeline(primary, fallback oracle.Oracle, cfg common.ExtractionConfig, model string, sink metrics.Sink, logger *slog.Logger) *Pipeline {
	if sink == nil {
		sink = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		primary:   primary,
		fallback:  fallback,
		parser:    parse.New(sink, logger),
		cfg:       cfg,
		model:     model,
		sink:      sink,
		log:       logger,
		condenser: NewCondenser(primary, fallback, token.NewCounter(), cfg, model, sink, logger),
	}
}

// Extract splits raw into overlapping chunks, extracts each concurrently,
// and merges the partial records first-non-null-wins by chunk order.
// Oracle failures never surface as errors: a chunk that fails contributes
// nothing and a batch where every chunk fails yields an all-absent record.
// The only error cases are invalid configuration.
func (p *Pipeline) Extract(ctx context.Context, raw string) (record.JobPosting, error) {
	batchID := uuid.New().String()
	start := time.Now()

	if p.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.BatchTimeout)
		defer cancel()
	}

	chunks, err := chunk.Split(raw, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	if err != nil {
		return record.JobPosting{}, common.WrapError(err, "extract: chunking")
	}

	p.log.Info("extract.batch.start", "batch_id", batchID, "chunks", len(chunks), "input_len", len(raw))
	p.sink.Log("chunks_created", map[string]any{"count": len(chunks)})

	// Fan-out: one oracle call per chunk. Completion order is unconstrained,
	// so each task writes into its own slot and the merge below re-reads the
	// slots in chunk-index order.
	partials := make([]record.JobPosting, len(chunks))
	succeeded := make([]bool, len(chunks))

	var g errgroup.Group
	if p.cfg.MaxInFlight > 0 {
		g.SetLimit(p.cfg.MaxInFlight)
	}
	for i, c := range chunks {
		g.Go(func() error {
			system, user := EntityPrompts(c)
			resp, err := p.complete(ctx, oracle.Request{
				System:      system,
				User:        user,
				Temperature: 0,
				MaxTokens:   constants.MaxTokensEntity,
				Timeout:     p.cfg.EntityTimeout,
			})
			if err != nil {
				p.log.Warn("extract.chunk.failed", "batch_id", batchID, "chunk_index", i, "error", err)
				p.sink.Log("chunk_extraction_error", map[string]any{"chunk_index": i, "error": err.Error()})
				return nil
			}
			data := p.parser.Parse(resp)
			if len(data) == 0 {
				// reply carried no information; skip it like a failure so
				// the merge input holds only real partials
				return nil
			}
			partial, _ := record.FromMap(data, p.log)
			partial.StampProvenance("oracle")
			partials[i] = partial
			succeeded[i] = true
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors; failure is per-chunk state

	p.sink.Log("gpt_calls", map[string]any{"count": len(chunks)})
	p.sink.Log("batch_extraction_latency", map[string]any{"latency_ms": time.Since(start).Milliseconds()})

	merged := record.Merge(collectOrdered(partials, succeeded))
	if err := record.Validate(merged); err != nil {
		// informational only; a merged record is never rejected at this point
		p.log.Warn("extract.batch.validate_failed", "batch_id", batchID, "error", err)
	}

	p.log.Info("extract.batch.ok",
		"batch_id", batchID,
		"chunks", len(chunks),
		"partials", countTrue(succeeded),
		"empty", merged.IsEmpty(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return merged, nil
}

// Condense exposes the long-document condenser flavor of the core.
func (p *Pipeline) Condense(ctx context.Context, raw string) (string, error) {
	return p.condenser.Condense(ctx, raw)
}

// complete calls the primary oracle and, on a typed failure, makes one
// explicit retry against the fallback endpoint when one is configured.
func (p *Pipeline) complete(ctx context.Context, req oracle.Request) (string, error) {
	resp, err := timedCall(ctx, p.primary, p.sink, req)
	if err == nil {
		return resp, nil
	}
	if p.fallback == nil {
		return "", err
	}
	p.sink.Log("fallback_attempt", map[string]any{"error": err.Error()})
	return timedCall(ctx, p.fallback, p.sink, req)
}

// timedCall issues one oracle call and reports it to the metrics stream.
func timedCall(ctx context.Context, o oracle.Oracle, sink metrics.Sink, req oracle.Request) (string, error) {
	start := time.Now()
	resp, err := o.Complete(ctx, req)
	sink.Log("llm_call", map[string]any{
		"latency_ms":   time.Since(start).Milliseconds(),
		"success":      err == nil,
		"prompt_len":   len(req.System) + len(req.User),
		"response_len": len(resp),
	})
	return resp, err
}

// collectOrdered keeps only successful partials, preserving chunk order.
func collectOrdered(partials []record.JobPosting, ok []bool) []record.JobPosting {
	out := make([]record.JobPosting, 0, len(partials))
	for i, p := range partials {
		if ok[i] {
			out = append(out, p)
		}
	}
	return out
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
