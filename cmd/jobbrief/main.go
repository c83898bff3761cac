package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/marketsense/jobbrief/internal/common"
	"github.com/marketsense/jobbrief/internal/extract"
	"github.com/marketsense/jobbrief/internal/metrics"
	"github.com/marketsense/jobbrief/internal/oracle/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	brief := flag.Bool("brief", false, "produce the compact interview brief instead of the entity record")
	flag.Parse()

	cfg := common.LoadConfig()
	if cfg.Oracle.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	raw, err := readInput(flag.Arg(0))
	if err != nil {
		logger.Error("read input", "error", err)
		os.Exit(2)
	}

	var sink metrics.Sink = metrics.NewSlogSink(logger)
	if cfg.Metrics.SQLitePath != "" {
		sqlSink, err := metrics.NewSQLiteSink(cfg.Metrics.SQLitePath, logger)
		if err != nil {
			logger.Warn("metrics store unavailable, falling back to log sink", "path", cfg.Metrics.SQLitePath, "error", err)
		} else {
			defer func() {
				if err := sqlSink.Close(); err != nil {
					logger.Warn("metrics store close error", "error", err)
				}
			}()
			sink = sqlSink
		}
	}

	client := openai.NewClient(openai.Config{
		APIKey:         cfg.Oracle.APIKey,
		BaseURL:        cfg.Oracle.BaseURL,
		Model:          cfg.Oracle.Model,
		RequestsPerSec: cfg.Oracle.RequestsPerSec,
		Burst:          cfg.Oracle.Burst,
	}, logger)

	pipeline := extract.NewPipeline(client, nil, cfg.Extraction, cfg.Oracle.Model, sink, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	var out any
	if *brief {
		out, err = pipeline.Brief(ctx, raw)
	} else {
		out, err = pipeline.Extract(ctx, raw)
	}
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done", "brief", *brief, "input_len", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}

// readInput reads the posting from a file argument, or stdin when none is
// given.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
