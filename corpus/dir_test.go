package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewDirStore(filepath.Join(t.TempDir(), "corpus"))
		require.NoError(t, err)
		return s
	})
}

func TestDirStore_Layout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewDirStore(root)
	require.NoError(t, err)

	e := NewEntry("a/b", []byte{0xca, 0xfe})
	require.NoError(t, s.Save(ctx, e))

	body, err := os.ReadFile(filepath.Join(root, "a%2Fb", e.ID+".hex"))
	require.NoError(t, err)
	assert.Equal(t, "cafe\n", string(body))
}

func TestDirStore_IgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewDirStore(root)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, NewEntry("p", []byte{1})))

	require.NoError(t, os.WriteFile(filepath.Join(root, "p", "README"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "p", ".entry-123"), []byte("01"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.hex"), []byte("01"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	entries, err := s.Load(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	props, err := s.Properties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, props)
}

func TestDirStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewDirStore(root)
	require.NoError(t, err)

	e := NewEntry("p", []byte{1})
	require.NoError(t, s.Save(ctx, e))
	require.NoError(t, os.WriteFile(filepath.Join(root, "p", e.ID+".hex"), []byte("not hex"), 0o644))

	_, err = s.Get(ctx, "p", e.ID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDirStore_CreatedAtFromModTime(t *testing.T) {
	ctx := context.Background()
	s, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	e := entryAt("p", []byte{5}, 14)
	require.NoError(t, s.Save(ctx, e))

	got, err := s.Get(ctx, "p", e.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt), "got %v want %v", got.CreatedAt, e.CreatedAt)
}
