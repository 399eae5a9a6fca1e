package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/wesleywu/simconfig/internal/logger"
	"github.com/wesleywu/simconfig/internal/params"
)

// StateStore remembers the fingerprint of every output written
type StateStore interface {
	IsChanged(path, fingerprint string) bool
	Update(path, format, fingerprint string, parameters int)
}

// BatchOptions controls where a batch writes its outputs
type BatchOptions struct {
	OutputDir        string
	BaseName         string
	Formats          []Format
	ConcurrencyLimit int
}

// Result is the outcome of one format in a batch
type Result struct {
	Format      Format
	Path        string
	Fingerprint string
	Written     bool
	Skipped     bool
	Duration    time.Duration
	Err         error
}

// Batch renders and writes several formats concurrently
type Batch struct {
	opts    Options
	batch   BatchOptions
	state   StateStore
	metrics *Metrics
	logger  *logger.Logger
}

// NewBatch creates a batch exporter. state may be nil, in which case only
// the content already on disk decides whether a file is rewritten.
func NewBatch(opts Options, batch BatchOptions, state StateStore, log *logger.Logger) (*Batch, error) {
	if batch.OutputDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if batch.BaseName == "" {
		return nil, fmt.Errorf("base name cannot be empty")
	}
	if len(batch.Formats) == 0 {
		return nil, fmt.Errorf("no formats to export")
	}
	if batch.ConcurrencyLimit <= 0 {
		batch.ConcurrencyLimit = 1
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Batch{
		opts:    opts,
		batch:   batch,
		state:   state,
		metrics: NewMetrics(),
		logger:  log.WithComponent("export"),
	}, nil
}

// Metrics returns the batch metrics
func (b *Batch) Metrics() *Metrics {
	return b.metrics
}

// OutputPath returns the file a format is written to
func (b *Batch) OutputPath(f Format) string {
	return filepath.Join(b.batch.OutputDir, b.batch.BaseName+f.Extension())
}

// Run renders table in every configured format and writes the outputs.
// Results are returned in format order; the error joins every failure.
func (b *Batch) Run(ctx context.Context, table *params.Table) ([]Result, error) {
	start := time.Now()

	pool, err := ants.NewPool(b.batch.ConcurrencyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]Result, len(b.batch.Formats))
	var wg sync.WaitGroup

	for i, f := range b.batch.Formats {
		i, f := i, f
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i] = b.exportOne(ctx, table, f)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = Result{Format: f, Path: b.OutputPath(f), Err: fmt.Errorf("failed to schedule %s export: %w", f, submitErr)}
		}
	}

	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}

	b.logger.BatchOperation("export", len(results), len(results)-len(errs), len(errs), time.Since(start).Milliseconds())

	return results, errors.Join(errs...)
}

func (b *Batch) exportOne(ctx context.Context, table *params.Table, f Format) (r Result) {
	start := time.Now()
	r = Result{Format: f, Path: b.OutputPath(f)}

	defer func() {
		r.Duration = time.Since(start)
		b.metrics.RecordExport(r.Duration, r.Written, r.Skipped, r.Err != nil)
	}()

	if err := ctx.Err(); err != nil {
		r.Err = &ExportError{ErrorType: ErrCanceled, Format: f, Path: r.Path, Cause: err}
		return r
	}

	text, err := Render(table, f, b.opts)
	if err != nil {
		r.Err = err
		return r
	}
	data := []byte(text)
	r.Fingerprint = Fingerprint(data)

	if b.state != nil && !b.state.IsChanged(r.Path, r.Fingerprint) && fileExists(r.Path) {
		r.Skipped = true
		b.logger.ExportSkipped(f.String(), r.Path)
		return r
	}

	written, err := WriteFile(r.Path, data)
	if err != nil {
		var ee *ExportError
		if errors.As(err, &ee) {
			ee.Format = f
		}
		r.Err = err
		return r
	}
	r.Written = written
	r.Skipped = !written

	if b.state != nil {
		b.state.Update(r.Path, f.String(), r.Fingerprint, table.Len())
	}

	b.logger.ExportCompleted(f.String(), r.Path, r.Fingerprint, time.Since(start).Milliseconds(), written)
	return r
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
