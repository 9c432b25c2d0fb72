package importer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// progressTracker reports how many release files of an import have been loaded.
// Tasks finish concurrently, so every method locks.
type progressTracker struct {
	writer    io.Writer
	total     int
	current   int
	rows      int64
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// newProgressTracker creates a tracker writing to writer. A nil tracker
// reports nothing.
func newProgressTracker(writer io.Writer) *progressTracker {
	if writer == nil {
		return nil
	}
	return &progressTracker{writer: writer}
}

// start begins tracking an import of total files.
func (p *progressTracker) start(total int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.total = total
	p.current = 0
	p.rows = 0
}

// done records a finished file and the rows read from it.
func (p *progressTracker) done(rows int64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current++
	if p.current > p.total {
		p.current = p.total
	}
	p.rows += rows
	p.report()
}

// finish prints the final progress line.
func (p *progressTracker) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.started = false
	fmt.Fprintln(p.writer)
}

// report prints the current progress. Must be called with lock held.
func (p *progressTracker) report() {
	rate := 0.0
	if elapsed := time.Since(p.startTime); elapsed > 0 {
		rate = float64(p.rows) / elapsed.Seconds()
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rLoaded: %d/%d files (%.1f%%) - %s rows, %s rows/s",
		p.current, p.total, percentage, humanize.Comma(p.rows), humanize.CommafWithDigits(rate, 0))
}
