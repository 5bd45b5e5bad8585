package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	t.Parallel()

	o := Options{URL: "http://127.0.0.1:8080/calendar", OutputPath: "preview.png"}
	require.NoError(t, o.normalize())
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, DefaultTimeout, o.Timeout)

	o = Options{URL: "u", OutputPath: "p", Width: 800, Height: 600}
	require.NoError(t, o.normalize())
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, 600, o.Height)
}

func TestSnapshotRequiresFields(t *testing.T) {
	t.Parallel()

	err := Snapshot(context.Background(), Options{OutputPath: "p"})
	assert.ErrorContains(t, err, "URL is required")

	err = Snapshot(context.Background(), Options{URL: "http://x"})
	assert.ErrorContains(t, err, "OutputPath is required")
}

func TestTasksWaitForReadyPage(t *testing.T) {
	t.Parallel()
	o := Options{URL: "u", OutputPath: "p"}
	require.NoError(t, o.normalize())

	var png []byte
	assert.Len(t, o.tasks(&png), 5)
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "preview.png")

	require.NoError(t, writeFile(path, []byte("one")))
	require.NoError(t, writeFile(path, []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
