package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "pbr.frag")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0o644))

	w, err := New()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(watched))

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("v2"), 0o644))

	var changed []string
	require.Eventually(t, func() bool {
		changed = append(changed, w.Changed()...)
		return len(changed) > 0
	}, 5*time.Second, 20*time.Millisecond)

	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	for _, c := range changed {
		assert.Equal(t, abs, c)
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "closing twice is allowed")
	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "x.vert")))
}
