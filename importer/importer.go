// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/profile"
	"github.com/poiesic/rf2boot/release"
	"github.com/poiesic/rf2boot/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// Importer loads release directories into a component factory.
// The worker pool lives as long as the Importer; call Release when done.
type Importer struct {
	factory  storage.ComponentFactory
	pool     *ants.Pool
	required []release.Role
	metrics  *metrics
	progress *progressTracker
	logger   *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the worker pool size for concurrent file loading.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(i *Importer) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		// Release old pool
		if i.pool != nil {
			i.pool.Release()
		}
		i.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// WithMetrics registers import metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(i *Importer) error {
		m, err := newMetrics(reg)
		if err != nil {
			return err
		}
		i.metrics = m
		return nil
	}
}

// WithProgress writes a progress line to w as release files finish loading.
func WithProgress(w io.Writer) Option {
	return func(i *Importer) error {
		i.progress = newProgressTracker(w)
		return nil
	}
}

// WithRequiredRoles sets the roles the international bundle must contain.
// Default is the concept snapshot only.
func WithRequiredRoles(roles ...release.Role) Option {
	return func(i *Importer) error {
		i.required = roles
		return nil
	}
}

// NewImporter creates an importer writing to factory.
func NewImporter(factory storage.ComponentFactory, opts ...Option) (*Importer, error) {
	if factory == nil {
		return nil, ErrFactoryRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	i := &Importer{
		factory:  factory,
		pool:     pool,
		required: []release.Role{release.RoleConcept},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(i); optErr != nil {
			i.Release()
			return nil, optErr
		}
	}
	i.logger = i.logger.With("component", "importer")
	return i, nil
}

// Release releases the worker pool.
// The importer should not be used after calling Release.
func (i *Importer) Release() {
	if i.pool != nil {
		i.pool.Release()
	}
}

// Report describes a finished import.
type Report struct {
	Run           string
	International *release.ReleaseFiles
	Extension     *release.ReleaseFiles
	Tasks         []TaskResult
	Concepts      int
	Elapsed       time.Duration
	HeapInUse     uint64
}

// Failed returns the tasks that failed.
func (r *Report) Failed() []TaskResult {
	var failed []TaskResult
	for _, t := range r.Tasks {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

// Err joins the errors of all failed tasks, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, t := range r.Failed() {
		errs = append(errs, t.Err)
	}
	return errors.Join(errs...)
}

// RowsRead returns the total number of rows read by all tasks.
func (r *Report) RowsRead() int64 {
	var total int64
	for _, t := range r.Tasks {
		total += t.Rows
	}
	return total
}

// Load imports dir and returns the resulting concept map.
func (i *Importer) Load(ctx context.Context, dir string, p *profile.LoadingProfile) (map[string]*core.Concept, error) {
	if _, err := i.Import(ctx, dir, p); err != nil {
		return nil, err
	}
	return i.factory.Concepts(), nil
}

// Import imports dir and reports every task.
//
// Classification errors are returned before anything is loaded. A concept
// file that cannot be read fails the import with ErrConceptLoad. Failures of
// other files are logged and reported but do not fail the import.
// Cancelling ctx while a batch runs returns ErrInterrupted and leaves the
// factory partially populated.
func (i *Importer) Import(ctx context.Context, dir string, p *profile.LoadingProfile) (*Report, error) {
	if p == nil {
		return nil, ErrProfileRequired
	}

	start := time.Now()
	report := &Report{Run: uuid.NewString()}
	logger := i.logger.With("run", report.Run)

	international, err := release.FindFiles(dir, release.International, i.required...)
	if err != nil {
		return nil, err
	}
	extension, err := release.FindFiles(dir, release.Extension)
	if err != nil {
		return nil, err
	}
	report.International = international
	report.Extension = extension

	logger.Info("international release files to be loaded", "files", international.String(), "profile", p.String())
	if extension.AnyFilesFound() {
		logger.Info("extension release files to be loaded", "files", extension.String())
	}

	batches := [][]task{
		i.batch(BundleInternational, international, p),
		i.batch(BundleExtension, extension, p),
	}
	totalFiles := len(batches[0]) + len(batches[1])
	for _, path := range []string{international.ConceptSnapshot, extension.ConceptSnapshot} {
		if path != "" {
			totalFiles++
		}
	}
	i.progress.start(totalFiles)
	defer i.progress.finish()

	// Concepts first, serially: every other row kind refers to them.
	conceptFiles := []struct {
		bundle Bundle
		path   string
	}{
		{BundleInternational, international.ConceptSnapshot},
		{BundleExtension, extension.ConceptSnapshot},
	}
	for _, cf := range conceptFiles {
		if cf.path == "" {
			continue
		}
		logger.Info("loading concepts", "bundle", cf.bundle)
		result := i.runTask(ctx, logger, i.conceptTask(cf.bundle, cf.path, p))
		report.Tasks = append(report.Tasks, result)
		if result.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
			}
			return nil, fmt.Errorf("%w: %w", ErrConceptLoad, result.Err)
		}
	}

	for idx, bundle := range []Bundle{BundleInternational, BundleExtension} {
		if bundle == BundleExtension && !extension.AnyFilesFound() {
			continue
		}
		tasks := batches[idx]
		logger.Info("loading remaining files", "bundle", bundle, "tasks", len(tasks))
		results, err := i.runBatch(ctx, logger, tasks)
		if err != nil {
			return nil, err
		}
		report.Tasks = append(report.Tasks, results...)
		logger.Info("files loaded", "bundle", bundle)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	report.HeapInUse = mem.HeapInuse
	report.Concepts = len(i.factory.Concepts())
	report.Elapsed = time.Since(start)

	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn("some release files failed to load", "failed", len(failed), "err", report.Err())
	}
	logger.Info("all in memory",
		"concepts", report.Concepts,
		"rows", humanize.Comma(report.RowsRead()),
		"heap", humanize.Bytes(report.HeapInUse),
		"elapsed", report.Elapsed)

	return report, nil
}
