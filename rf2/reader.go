package rf2

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ContextCheckInterval is how often (in rows) the reader checks for
// cancellation. Values below 1 check on every row.
var ContextCheckInterval = 1000

// maxLineSize bounds a single row. Description terms are short but some
// reference set patterns carry long string columns.
const maxLineSize = 1024 * 1024

// RowHandler receives the fields of one row. Returning an error aborts the read.
type RowHandler func(fields []string) error

// ReadRows streams an RF2 file through handler. The first line is a header and
// is discarded; every following line is split on the tab delimiter and handed
// to handler in file order. It returns the number of rows handled.
//
// Read and handler errors abort the remaining file and are returned wrapped
// with the file name. componentType is only used for logging.
func ReadRows(ctx context.Context, path string, handler RowHandler, componentType string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fileName := filepath.Base(path)
	logger.Info("reading", "kind", componentType, "file", fileName)

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", fileName, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	// Discard header line
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("reading header of %s: %w", fileName, err)
		}
		logger.Warn("file is empty", "kind", componentType, "file", fileName)
		return 0, nil
	}

	interval := int64(max(ContextCheckInterval, 1))
	var rowsRead int64
	for scanner.Scan() {
		if rowsRead%interval == 0 {
			if err := ctx.Err(); err != nil {
				return rowsRead, fmt.Errorf("reading %s: %w", fileName, err)
			}
		}

		line := scanner.Text()
		if err := handler(strings.Split(line, Delimiter)); err != nil {
			// +2: one-based, plus the header
			return rowsRead, fmt.Errorf("%s line %d: %w", fileName, rowsRead+2, err)
		}
		rowsRead++
	}
	if err := scanner.Err(); err != nil {
		return rowsRead, fmt.Errorf("reading %s: %w", fileName, err)
	}

	logger.Info("read complete", "kind", componentType, "rows", rowsRead, "file", fileName)
	return rowsRead, nil
}
