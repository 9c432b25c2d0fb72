package rf2

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conceptHeader = "id\teffectiveTime\tactive\tmoduleId\tdefinitionStatusId"

func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestReadRows_DiscardsHeaderAndKeepsOrder(t *testing.T) {
	path := writeFile(t, "sct2_Concept_Snapshot_INT_20250101.txt",
		conceptHeader,
		"100005\t20020131\t1\t900000000000207008\t900000000000074008",
		"101009\t20020131\t0\t900000000000207008\t900000000000074008",
		"102002\t20020131\t1\t900000000000207008\t900000000000073002",
	)

	var ids []string
	rows, err := ReadRows(context.Background(), path, func(fields []string) error {
		ids = append(ids, fields[ColumnID])
		return nil
	}, "concepts", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
	assert.Equal(t, []string{"100005", "101009", "102002"}, ids)
}

func TestReadRows_CRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.txt")
	content := conceptHeader + "\r\n" + "100005\t20020131\t1\t900000000000207008\t900000000000074008\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var last string
	rows, err := ReadRows(context.Background(), path, func(fields []string) error {
		last = fields[ConceptDefinitionStatusID]
		return nil
	}, "concepts", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, "900000000000074008", last)
}

func TestReadRows_KeepsEmptyTrailingColumns(t *testing.T) {
	path := writeFile(t, "refset.txt",
		"id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId\tmapTarget",
		"a\t20250101\t1\tm\t447562003\t100005\t",
	)

	var got []string
	_, err := ReadRows(context.Background(), path, func(fields []string) error {
		got = fields
		return nil
	}, "reference set members", nil)

	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, "", got[6])
}

func TestReadRows_HeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.txt", conceptHeader)

	called := false
	rows, err := ReadRows(context.Background(), path, func(fields []string) error {
		called = true
		return nil
	}, "concepts", nil)

	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.False(t, called)
}

func TestReadRows_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	rows, err := ReadRows(context.Background(), path, func(fields []string) error {
		return nil
	}, "concepts", nil)

	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(context.Background(), filepath.Join(t.TempDir(), "nope.txt"),
		func(fields []string) error { return nil }, "concepts", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadRows_HandlerErrorAborts(t *testing.T) {
	path := writeFile(t, "concepts.txt",
		conceptHeader,
		"100005\t20020131\t1\t900000000000207008\t900000000000074008",
		"101009\t20020131\t1",
		"102002\t20020131\t1\t900000000000207008\t900000000000073002",
	)

	var seen int
	rows, err := ReadRows(context.Background(), path, func(fields []string) error {
		if _, err := DecodeConceptRow(fields); err != nil {
			return err
		}
		seen++
		return nil
	}, "concepts", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortRow)
	assert.Contains(t, err.Error(), "concepts.txt line 3")
	assert.Equal(t, int64(1), rows)
	assert.Equal(t, 1, seen)
}

func TestReadRows_Cancelled(t *testing.T) {
	path := writeFile(t, "concepts.txt",
		conceptHeader,
		"100005\t20020131\t1\t900000000000207008\t900000000000074008",
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadRows(ctx, path, func(fields []string) error { return nil }, "concepts", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadRows_NonPositiveCheckInterval(t *testing.T) {
	saved := ContextCheckInterval
	t.Cleanup(func() { ContextCheckInterval = saved })

	path := writeFile(t, "concepts.txt",
		conceptHeader,
		"100005\t20020131\t1\t900000000000207008\t900000000000074008",
		"101009\t20020131\t0\t900000000000207008\t900000000000074008",
	)

	for _, interval := range []int{0, -5} {
		ContextCheckInterval = interval

		rows, err := ReadRows(context.Background(), path, func(fields []string) error { return nil }, "concepts", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rows)

		ctx, cancel := context.WithCancel(context.Background())
		var handled int
		_, err = ReadRows(ctx, path, func(fields []string) error {
			handled++
			cancel()
			return nil
		}, "concepts", nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, handled)
	}
}
