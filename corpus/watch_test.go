package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Entry) Entry {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for corpus entry")
		return Entry{}
	}
}

func TestWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	store, err := NewDirStore(root)
	require.NoError(t, err)
	old := NewEntry("existing", []byte{1})
	require.NoError(t, store.Save(ctx, old))

	w, err := NewWatcher(root)
	require.NoError(t, err)

	got := make(chan Entry, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(e Entry) { got <- e })
	}()

	fresh := NewEntry("existing", []byte{2})
	require.NoError(t, store.Save(ctx, fresh))
	e := receive(t, got)
	assert.Equal(t, "existing", e.Property)
	assert.Equal(t, fresh.ID, e.ID)
	assert.Equal(t, []byte{2}, e.Choices)

	other := NewEntry("brand new", []byte{3, 4})
	require.NoError(t, store.Save(ctx, other))
	e = receive(t, got)
	assert.Equal(t, "brand new", e.Property)
	assert.Equal(t, []byte{3, 4}, e.Choices)

	// non-entry files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(root, "existing", "notes.txt"), []byte("x"), 0o644))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	close(got)
	for e := range got {
		assert.NotEqual(t, old.ID, e.ID, "entries present before the watch are not reported")
		assert.NotEqual(t, "notes.txt", e.ID)
	}
}

func TestNewWatcher_MissingRootIsCreated(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "corpus")
	w, err := NewWatcher(root)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.DirExists(t, root)
}
