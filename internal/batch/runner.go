// Package batch runs metadata analysis over multiple files with a
// bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/nightdust/imgmeta/internal/analyze"
	"github.com/nightdust/imgmeta/internal/archive"
	"github.com/nightdust/imgmeta/internal/geocode"
	"github.com/nightdust/imgmeta/internal/logger"
	"github.com/nightdust/imgmeta/internal/progress"
	"github.com/nightdust/imgmeta/internal/render"
	"github.com/nightdust/imgmeta/internal/worker"
)

// Options controls a batch run.
type Options struct {
	Geocode     bool
	MaxExifShow int
}

// Runner analyzes files concurrently and writes one report per file.
type Runner struct {
	analyzer *analyze.Analyzer
	resolver *geocode.Resolver
	arch     *archive.Archive
	pool     *worker.Pool
	progress *progress.Reporter
	opts     Options
}

// New creates a batch runner. resolver and arch may be nil to
// disable geocoding and archival.
func New(analyzer *analyze.Analyzer, resolver *geocode.Resolver, arch *archive.Archive,
	pool *worker.Pool, reporter *progress.Reporter, opts Options) *Runner {
	return &Runner{
		analyzer: analyzer,
		resolver: resolver,
		arch:     arch,
		pool:     pool,
		progress: reporter,
		opts:     opts,
	}
}

// Run analyzes every path and writes reports to out. Reports appear
// in completion order; the writer is serialized.
func (r *Runner) Run(ctx context.Context, paths []string, out io.Writer) error {
	r.progress.Start(len(paths))

	var mu sync.Mutex

	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		path := path
		r.pool.Submit(func() {
			res := r.analyzer.ParseFile(path)

			address := ""
			if r.opts.Geocode && r.resolver != nil && res.GPS.Valid {
				address = r.resolver.Resolve(ctx, res.GPS.Lat, res.GPS.Lon)
			}

			if r.arch != nil && res.Error == "" {
				r.archiveFile(ctx, path)
			}

			report := render.Report(res, address, render.Options{MaxExifShow: r.opts.MaxExifShow})

			mu.Lock()
			fmt.Fprintf(out, "==> %s\n%s\n\n", path, report)
			mu.Unlock()

			if res.Error != "" {
				r.progress.Error(path, fmt.Errorf("%s", res.Error))
			} else {
				r.progress.Complete(path)
			}
		})
	}

	r.pool.Wait()
	r.progress.Finish()

	return nil
}

func (r *Runner) archiveFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("cannot re-read %s for archival: %v", path, err)
		return
	}
	if err := r.arch.Store(ctx, path, data); err != nil {
		logger.Warn("archival of %s failed: %v", path, err)
	}
}
