package tileset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tilesets.yaml", yamlManifest)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	w, err := NewWatcher(path, reg)
	require.NoError(t, err)
	defer w.Close()

	updated := yamlManifest + `  - source: items.png
    firstgid: 69
    tilewidth: 16
    tileheight: 16
    tilecount: 10
    columns: 5
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case n := <-w.Reloads:
		require.Equal(t, 3, n)
	case err := <-w.Errors:
		t.Fatalf("reload failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	d, ok := reg.Resolve(70)
	require.True(t, ok)
	require.Equal(t, "items.png", d.Source())

	// a broken manifest keeps the previous tilesets
	require.NoError(t, os.WriteFile(path, []byte("tilesets: [\n"), 0o644))
	select {
	case err := <-w.Errors:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload error")
	}
	require.Equal(t, 3, reg.Len())

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case n := <-w.Reloads:
		t.Fatalf("unexpected reload of %d tilesets", n)
	case <-time.After(3 * reloadDebounce):
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
