package shopfeed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunRecorder receives the finished datasets of a run, for example to
// ingest them into a local history database. A recorder failure is
// logged but never fails the run.
type RunRecorder interface {
	RecordRun(ctx context.Context, runID string, recordedAt time.Time, products, variants *Dataset) error
}

// RunConfig describes one pipeline run. Credentials and destinations
// are explicit values scoped to the run; the pipeline keeps no
// ambient state between runs.
type RunConfig struct {
	// FeedURLs are the source feeds, processed strictly in order.
	FeedURLs []string

	// ProductsPath and VariantsPath are the local append-only history
	// files. Empty paths skip the durable append.
	ProductsPath string
	VariantsPath string

	// ProductsTable and VariantsTable are the remote tabular surfaces
	// kept in exact correspondence with the run's datasets. Nil tables
	// skip the remote sync.
	ProductsTable RemoteTable
	VariantsTable RemoteTable

	// ArchiveDir, when set, receives a dated full export of each
	// dataset, compressed per Archive.
	ArchiveDir string
	Archive    CompressionType

	// Recorder, when set, receives the finished datasets.
	Recorder RunRecorder
}

// FeedError records a source feed that could not be fetched.
type FeedError struct {
	URL string
	Err error
}

// RunReport summarizes one run. Skipped records and failed feeds are
// counted here so nothing is dropped invisibly.
type RunReport struct {
	RunID          string
	StartedAt      time.Time
	FeedsFetched   int
	FeedsFailed    int
	FeedErrors     []FeedError
	Products       int
	Variants       int
	SkippedRecords int
	RemoteSynced   bool
}

// Pipeline runs the fetch, normalize, accumulate, append, sync cycle.
// Runs are sequential and single-threaded; the two durable artifacts
// are treated as single-writer resources.
type Pipeline struct {
	retriever FeedRetriever
	logger    *zap.Logger
	clock     func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

// NewPipeline create new Pipeline.
func NewPipeline(retriever FeedRetriever, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		retriever: retriever,
		logger:    zap.NewNop(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Collect fetches and normalizes every configured feed exactly once,
// accumulating the rows into the two datasets. A failed feed or a
// malformed record is skipped and counted, never silently dropped;
// already-accumulated rows are kept. Only context cancellation aborts
// the collection.
func (p *Pipeline) Collect(ctx context.Context, urls []string) (*Dataset, *Dataset, *RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: p.clock(),
	}
	accumulator := NewAccumulator()

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}

		feed, err := p.retriever.Fetch(ctx, url)
		if err != nil {
			report.FeedsFailed++
			report.FeedErrors = append(report.FeedErrors, FeedError{URL: url, Err: err})
			p.logger.Warn("feed skipped",
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		report.FeedsFetched++

		for i, raw := range feed.Products {
			product, variants, err := NormalizeProduct(raw)
			if err != nil {
				report.SkippedRecords++
				p.logger.Warn("record skipped",
					zap.String("url", url),
					zap.Int("index", i),
					zap.Error(err))
				continue
			}
			accumulator.Add(product, variants)
		}

		p.logger.Info("feed normalized",
			zap.String("url", url),
			zap.Int("products", len(feed.Products)))
	}

	report.Products = accumulator.Products().Len()
	report.Variants = accumulator.Variants().Len()
	return accumulator.Products(), accumulator.Variants(), report, nil
}

// Run executes one full cycle: collect all feeds in a single
// normalization pass, append to the local history files, mirror both
// datasets to the remote tables, then hand the datasets to the
// recorder.
//
// A durable append failure aborts the run before any remote write. A
// remote sync failure is returned to the caller but the completed
// local append stands: local-persisted, remote-stale is an accepted
// and observable end state.
func (p *Pipeline) Run(ctx context.Context, cfg RunConfig) (*RunReport, error) {
	products, variants, report, err := p.Collect(ctx, cfg.FeedURLs)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With(zap.String("run_id", report.RunID))

	if cfg.ProductsPath != "" {
		if err := AppendDataset(products, cfg.ProductsPath); err != nil {
			return report, fmt.Errorf("append products: %w", err)
		}
	}
	if cfg.VariantsPath != "" {
		if err := AppendDataset(variants, cfg.VariantsPath); err != nil {
			return report, fmt.Errorf("append variants: %w", err)
		}
	}
	logger.Info("durable append complete",
		zap.Int("products", products.Len()),
		zap.Int("variants", variants.Len()))

	if cfg.ArchiveDir != "" {
		if err := p.writeArchives(cfg, report, products, variants); err != nil {
			return report, err
		}
	}

	if err := p.syncRemote(ctx, cfg, report, products, variants); err != nil {
		return report, err
	}

	if cfg.Recorder != nil {
		if err := cfg.Recorder.RecordRun(ctx, report.RunID, report.StartedAt, products, variants); err != nil {
			logger.Warn("run recording failed", zap.Error(err))
		}
	}
	return report, nil
}

// writeArchives exports both datasets as dated, optionally compressed
// full files under the archive directory.
func (p *Pipeline) writeArchives(cfg RunConfig, report *RunReport, products, variants *Dataset) error {
	stamp := report.StartedAt.Format(dateOnly)
	for _, dataset := range []*Dataset{products, variants} {
		name := fmt.Sprintf("%s-%s.csv%s", dataset.Name(), stamp, cfg.Archive.Extension())
		path := filepath.Join(cfg.ArchiveDir, name)
		if err := WriteArchive(dataset, path, cfg.Archive); err != nil {
			return fmt.Errorf("archive %s: %w", dataset.Name(), err)
		}
	}
	return nil
}

// syncRemote mirrors both datasets to their remote tables. An empty
// dataset skips its table with a warning instead of attempting range
// math against a nonexistent first row.
func (p *Pipeline) syncRemote(ctx context.Context, cfg RunConfig, report *RunReport, products, variants *Dataset) error {
	tables := []struct {
		dataset *Dataset
		table   RemoteTable
	}{
		{products, cfg.ProductsTable},
		{variants, cfg.VariantsTable},
	}

	synced := false
	for _, pair := range tables {
		if pair.table == nil {
			continue
		}
		if pair.dataset.Len() == 0 {
			p.logger.Warn("remote sync skipped for empty dataset",
				zap.String("dataset", pair.dataset.Name()))
			continue
		}
		if err := SyncDataset(ctx, pair.dataset, pair.table); err != nil {
			return fmt.Errorf("sync %s: %w", pair.dataset.Name(), err)
		}
		synced = true
		p.logger.Info("remote sync complete",
			zap.String("dataset", pair.dataset.Name()),
			zap.Int("rows", pair.dataset.Len()))
	}
	report.RemoteSynced = synced
	return nil
}
