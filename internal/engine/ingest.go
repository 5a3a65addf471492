package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"airquality/internal/logger"
	"airquality/internal/metrics"
	"airquality/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type options struct {
	loader  Loader
	workers int
	catalog *Catalog
	log     *slog.Logger
}

type Option func(*options)

// WithLoader replaces the default CSVLoader.
func WithLoader(l Loader) Option { return func(o *options) { o.loader = l } }

// WithWorkers caps the number of files parsed at once. n <= 0 uses runtime.NumCPU().
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

func WithCatalog(c *Catalog) Option { return func(o *options) { o.catalog = c } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

type fileResult struct {
	ds      *models.Dataset
	dropped int
	err     error
}

// Load walks root, parses every regular file below it on a worker pool and
// keeps only the points inside the catalog's regions. Files that fail to
// load are recorded in the report and skipped; a missing or empty root gives
// an empty store. The only error Load returns is the context's, when it is
// cancelled before ingestion finishes.
func Load(ctx context.Context, root string, opts ...Option) (*Store, error) {
	o := options{loader: CSVLoader{}, catalog: DefaultCatalog}
	for _, fn := range opts {
		fn(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if o.log == nil {
		o.log = logger.L()
	}

	start := time.Now()
	runID := uuid.NewString()
	log := o.log.With("run_id", runID)
	log.Info("ingest_begin", "root", root, "workers", o.workers)

	// A. Discover files
	paths, failures, err := discover(ctx, root, log)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", root, err)
	}
	sort.Strings(paths)

	// B. Parse and filter in parallel. Each task owns its slot in results.
	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ds, err := o.loader.Load(path)
			if err == nil && ds == nil {
				err = errors.New("loader returned no dataset")
			}
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].ds, results[i].dropped = filterDataset(ds, o.catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", root, err)
	}

	// C. Merge into the index in one sequential pass
	s := &Store{buckets: make(map[bucketKey][]models.DataPoint), catalog: o.catalog}
	for i, r := range results {
		if r.err != nil {
			failures = append(failures, IngestionError{Path: paths[i], Err: r.err})
			metrics.IngestFilesTotal.WithLabelValues("failed").Inc()
			log.Warn("ingest_file_error", "path", paths[i], "err", r.err)
			continue
		}
		s.add(r.ds)
		s.report.Loaded++
		s.report.PointsKept += len(r.ds.Points)
		s.report.PointsDropped += r.dropped
		metrics.IngestFilesTotal.WithLabelValues("loaded").Inc()
	}
	s.finish()

	s.report.RunID = runID
	s.report.Root = root
	s.report.Files = len(paths)
	s.report.Failures = failures
	s.report.Duration = time.Since(start)

	metrics.IngestPointsTotal.WithLabelValues("kept").Add(float64(s.report.PointsKept))
	metrics.IngestPointsTotal.WithLabelValues("dropped").Add(float64(s.report.PointsDropped))
	metrics.IngestDurationSeconds.Observe(s.report.Duration.Seconds())

	log.Info("ingest_done",
		"files", s.report.Files,
		"loaded", s.report.Loaded,
		"failed", len(failures),
		"points_kept", s.report.PointsKept,
		"points_dropped", s.report.PointsDropped,
		"took", s.report.Duration)
	return s, nil
}

// discover lists every regular file below root. Symlinks are followed: a
// linked directory is walked through its target and a linked file is loaded
// from its target. Each real directory is walked once and each real file is
// listed once, so link cycles terminate. Dangling links and links to special
// files are reported as failures.
func discover(ctx context.Context, root string, log *slog.Logger) ([]string, []IngestionError, error) {
	var paths []string
	var failures []IngestionError
	fail := func(path string, err error) {
		failures = append(failures, IngestionError{Path: path, Err: err})
		log.Warn("ingest_walk_error", "path", path, "err", err)
	}
	seenDir := make(map[string]bool)
	seenFile := make(map[string]bool)
	addFile := func(real string) {
		if !seenFile[real] {
			seenFile[real] = true
			paths = append(paths, real)
		}
	}

	var walk func(dir string) error
	walk = func(dir string) error {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			fail(dir, err)
			return nil
		}
		if seenDir[real] {
			return nil
		}
		seenDir[real] = true

		return filepath.WalkDir(real, func(path string, d fs.DirEntry, err error) error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err != nil {
				fail(path, err)
				if d != nil && d.IsDir() && path != real {
					return filepath.SkipDir
				}
				return nil
			}
			switch {
			case d.Type()&fs.ModeSymlink != 0:
				info, err := os.Stat(path)
				if err != nil {
					fail(path, err)
					return nil
				}
				if info.IsDir() {
					return walk(path)
				}
				if !info.Mode().IsRegular() {
					fail(path, errors.New("link target is not a regular file"))
					return nil
				}
				target, err := filepath.EvalSymlinks(path)
				if err != nil {
					fail(path, err)
					return nil
				}
				addFile(target)
			case d.IsDir():
				if path != real && seenDir[path] {
					return filepath.SkipDir
				}
				seenDir[path] = true
			case d.Type().IsRegular():
				addFile(path)
			}
			return nil
		})
	}
	if err := walk(root); err != nil {
		return nil, nil, err
	}
	return paths, failures, nil
}
