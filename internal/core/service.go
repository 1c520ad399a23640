package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/reportmap/internal/config"
	"github.com/JonMunkholm/reportmap/internal/loader"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Loader        loader.Options
	Analyzer      AnalyzerOptions
	MaxConcurrent int
	MaxWait       time.Duration
}

// OptionsFromConfig maps application configuration onto ServiceOptions.
func OptionsFromConfig(cfg *config.Config) ServiceOptions {
	return ServiceOptions{
		Loader: loader.Options{
			SampleBytes: cfg.Analysis.EncodingSampleBytes,
			ProbeRows:   cfg.Analysis.ProbeRows,
			Delimiters:  cfg.Analysis.DelimiterRunes(),
		},
		Analyzer: AnalyzerOptions{
			ExampleValues: cfg.Analysis.ExampleValues,
			SampleRows:    cfg.Analysis.SampleRows,
			SortExamples:  cfg.Analysis.SortExamples,
		},
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWait:       cfg.Upload.MaxWaitTime,
	}
}

// Service runs the load-then-analyze pipeline for single files and batches.
type Service struct {
	logger   *slog.Logger
	loader   *loader.Loader
	analyzer *Analyzer
	limiter  *BatchLimiter
}

// NewService wires a loader, analyzer and batch limiter around logger.
func NewService(logger *slog.Logger, opts ServiceOptions) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:   logger,
		loader:   loader.New(logger, opts.Loader),
		analyzer: NewAnalyzer(logger, opts.Analyzer),
		limiter:  NewBatchLimiter(opts.MaxConcurrent, opts.MaxWait),
	}
}

// Limiter exposes the batch limiter, mainly for status and shutdown.
func (s *Service) Limiter() *BatchLimiter {
	return s.limiter
}

// AnalyzeFile loads f and reports its structure.
func (s *Service) AnalyzeFile(ctx context.Context, f loader.File) (*FileReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := s.loader.Load(f)
	if err != nil {
		return nil, err
	}

	report := s.analyzer.Analyze(t, f.Name())
	s.logger.Debug("file analyzed",
		"batch_id", BatchIDFromContext(ctx),
		"file", f.Name(),
		"rows", report.TotalRows,
		"columns", len(report.Columns),
	)
	return report, nil
}

// AnalyzeBatch analyzes files one after another in the given order and
// returns one result per file. A failing file never stops the files after
// it; once ctx ends, the remaining files get ctx's error. The only error
// returned directly is a failure to obtain a batch slot.
func (s *Service) AnalyzeBatch(ctx context.Context, files []loader.File) ([]FileResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("acquire batch slot: %w", err)
	}
	defer s.limiter.Release()

	batchID := uuid.New().String()
	ctx = ContextWithBatchID(ctx, batchID)
	logger := s.logger.With("batch_id", batchID)

	logger.Info("batch started", "files", len(files))
	start := time.Now()

	results := make([]FileResult, len(files))
	failed := 0
	for i, f := range files {
		results[i].FileName = f.Name()

		report, err := s.AnalyzeFile(ctx, f)
		if err != nil {
			failed++
			results[i].Err = err
			logger.Error("file analysis failed", "file", f.Name(), "error", err)
			continue
		}
		results[i].Report = report
	}

	logger.Info("batch finished",
		"files", len(files),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

// WaitForBatches blocks until running batches finish or ctx ends.
func (s *Service) WaitForBatches(ctx context.Context) error {
	return s.limiter.Drain(ctx)
}
