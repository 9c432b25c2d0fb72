package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/rf2boot/profile"
	"github.com/poiesic/rf2boot/release"
	"github.com/poiesic/rf2boot/rf2"
)

// Component names the row kind a task reads.
type Component string

const (
	ComponentConcepts      Component = "concepts"
	ComponentRelationships Component = "relationships"
	ComponentDescriptions  Component = "descriptions"
	ComponentRefsetMembers Component = "reference set members"
)

// Bundle names the origin of a set of release files.
type Bundle string

const (
	BundleInternational Bundle = "international"
	BundleExtension     Bundle = "extension"
)

// TaskResult is the outcome of reading one release file.
type TaskResult struct {
	Bundle    Bundle
	Component Component
	Path      string
	Rows      int64 // Rows read, excluding the header
	Accepted  int64 // Rows that passed the profile
	Duration  time.Duration
	Err       error
}

// task reads one file. handler builds the row handler for a single run and
// receives the counter for accepted rows.
type task struct {
	bundle    Bundle
	component Component
	path      string
	handler   func(accepted *int64) rf2.RowHandler
}

func (i *Importer) conceptTask(bundle Bundle, path string, p *profile.LoadingProfile) task {
	return task{
		bundle:    bundle,
		component: ComponentConcepts,
		path:      path,
		handler: func(accepted *int64) rf2.RowHandler {
			return rowHandler(rf2.DecodeConceptRow, handleConcept, p, i.factory, accepted)
		},
	}
}

// batch builds the concurrent task set of a bundle: relationships,
// descriptions, and one task per reference set file when the profile tracks
// any reference set.
func (i *Importer) batch(bundle Bundle, files *release.ReleaseFiles, p *profile.LoadingProfile) []task {
	var tasks []task
	if files.RelationshipSnapshot != "" {
		tasks = append(tasks, task{
			bundle:    bundle,
			component: ComponentRelationships,
			path:      files.RelationshipSnapshot,
			handler: func(accepted *int64) rf2.RowHandler {
				return rowHandler(rf2.DecodeRelationshipRow, handleRelationship, p, i.factory, accepted)
			},
		})
	}
	if files.DescriptionSnapshot != "" {
		tasks = append(tasks, task{
			bundle:    bundle,
			component: ComponentDescriptions,
			path:      files.DescriptionSnapshot,
			handler: func(accepted *int64) rf2.RowHandler {
				return rowHandler(rf2.DecodeDescriptionRow, handleDescription, p, i.factory, accepted)
			},
		})
	}
	if p.TracksRefsets() {
		for _, path := range files.RefsetSnapshots {
			tasks = append(tasks, task{
				bundle:    bundle,
				component: ComponentRefsetMembers,
				path:      path,
				handler: func(accepted *int64) rf2.RowHandler {
					return rowHandler(rf2.DecodeRefsetMemberRow, handleRefsetMember, p, i.factory, accepted)
				},
			})
		}
	}
	return tasks
}

// runTask reads one file. Errors and panics are captured in the result.
func (i *Importer) runTask(ctx context.Context, logger *slog.Logger, t task) (result TaskResult) {
	start := time.Now()
	result = TaskResult{Bundle: t.bundle, Component: t.component, Path: t.path}

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("%w: %s: %v", ErrTaskPanic, filepath.Base(t.path), r)
		}
		result.Duration = time.Since(start)
		i.metrics.observe(result)
		i.progress.done(result.Rows)

		if result.Err != nil {
			logger.Error("failed to read or process rows",
				"bundle", t.bundle, "kind", t.component, "file", filepath.Base(t.path), "err", result.Err)
			return
		}
		logger.Info("rows read",
			"bundle", t.bundle, "kind", t.component, "file", filepath.Base(t.path),
			"rows", result.Rows, "accepted", result.Accepted, "duration", result.Duration)
	}()

	var accepted int64
	rows, err := rf2.ReadRows(ctx, t.path, t.handler(&accepted), string(t.component), logger)
	result.Rows = rows
	result.Accepted = accepted
	result.Err = err
	return result
}

// runBatch submits every task to the pool and waits for all of them. Waiting
// honours ctx; on cancellation the batch is abandoned and ErrInterrupted is
// returned. Task failures never fail the batch.
func (i *Importer) runBatch(ctx context.Context, logger *slog.Logger, tasks []task) ([]TaskResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	results := make([]TaskResult, len(tasks))
	var wg sync.WaitGroup
	for idx, t := range tasks {
		wg.Add(1)
		err := i.pool.Submit(func() {
			defer wg.Done()
			results[idx] = i.runTask(ctx, logger, t)
		})
		if err != nil {
			wg.Done()
			results[idx] = TaskResult{Bundle: t.bundle, Component: t.component, Path: t.path, Err: err}
			i.metrics.observe(results[idx])
			i.progress.done(0)
			logger.Error("failed to submit task", "kind", t.component, "file", filepath.Base(t.path), "err", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return results, nil
}
