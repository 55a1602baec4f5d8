package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(property string, choices []byte, day int) Entry {
	e := NewEntry(property, choices)
	e.CreatedAt = time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
	return e
}

// testStore runs the behaviour every Store must share.
func testStore(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := open(t)
		e := entryAt("sorted", []byte{0, 1, 2, 255}, 1)
		require.NoError(t, s.Save(ctx, e))

		got, err := s.Get(ctx, "sorted", e.ID)
		require.NoError(t, err)
		assert.Equal(t, e.Choices, got.Choices)
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, "sorted", got.Property)
	})

	t.Run("save is idempotent", func(t *testing.T) {
		s := open(t)
		e := entryAt("p", []byte{9, 9}, 1)
		require.NoError(t, s.Save(ctx, e))
		require.NoError(t, s.Save(ctx, e))

		entries, err := s.Load(ctx, "p")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("load is oldest first", func(t *testing.T) {
		s := open(t)
		first := entryAt("p", []byte{1}, 1)
		second := entryAt("p", []byte{2}, 2)
		third := entryAt("p", []byte{3}, 3)
		for _, e := range []Entry{first, second, third} {
			require.NoError(t, s.Save(ctx, e))
		}
		require.NoError(t, s.Save(ctx, entryAt("other", []byte{4}, 1)))

		entries, err := s.Load(ctx, "p")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, []byte{1}, entries[0].Choices)
		assert.Equal(t, []byte{2}, entries[1].Choices)
		assert.Equal(t, []byte{3}, entries[2].Choices)
	})

	t.Run("unknown property is empty", func(t *testing.T) {
		s := open(t)
		entries, err := s.Load(ctx, "never saved")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("empty choices", func(t *testing.T) {
		s := open(t)
		e := entryAt("p", nil, 1)
		require.NoError(t, s.Save(ctx, e))
		got, err := s.Get(ctx, "p", e.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Choices)
	})

	t.Run("properties", func(t *testing.T) {
		s := open(t)
		for _, p := range []string{"zeta", "alpha", "with/slash and space"} {
			require.NoError(t, s.Save(ctx, entryAt(p, []byte(p), 1)))
		}
		props, err := s.Properties(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "with/slash and space", "zeta"}, props)

		entries, err := s.Load(ctx, "with/slash and space")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, []byte("with/slash and space"), entries[0].Choices)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		e := entryAt("p", []byte{7}, 1)
		require.NoError(t, s.Save(ctx, e))
		require.NoError(t, s.Delete(ctx, "p", e.ID))

		_, err := s.Get(ctx, "p", e.ID)
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, s.Delete(ctx, "p", e.ID), ErrNotFound)

		props, err := s.Properties(ctx)
		require.NoError(t, err)
		assert.NotContains(t, props, "p")
	})

	t.Run("get missing", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(ctx, "p", EntryID([]byte{1}))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		s := open(t)
		require.ErrorIs(t, s.Save(ctx, NewEntry("", []byte{1})), ErrInvalidProperty)
		require.ErrorIs(t, s.Save(ctx, NewEntry("..", []byte{1})), ErrInvalidProperty)

		forged := NewEntry("p", []byte{1})
		forged.Choices = []byte{2}
		require.ErrorIs(t, s.Save(ctx, forged), ErrInvalidID)

		_, err := s.Get(ctx, "p", "../../etc/passwd")
		require.ErrorIs(t, err, ErrInvalidID)
		require.ErrorIs(t, s.Delete(ctx, "p", "xyz"), ErrInvalidID)
		_, err = s.Load(ctx, " ")
		require.ErrorIs(t, err, ErrInvalidProperty)
	})
}

func TestEntryID(t *testing.T) {
	id := EntryID([]byte{1, 2, 3})
	assert.Len(t, id, 16)
	assert.Equal(t, id, EntryID([]byte{1, 2, 3}))
	assert.NotEqual(t, id, EntryID([]byte{1, 2}))
	assert.NoError(t, validateID(id))
}

func TestNewEntry(t *testing.T) {
	choices := []byte{0xde, 0xad}
	e := NewEntry("p", choices)
	choices[0] = 0

	assert.Equal(t, []byte{0xde, 0xad}, e.Choices, "entry must own its choices")
	assert.Equal(t, "dead", e.Hex())
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
	assert.Zero(t, e.CreatedAt.Nanosecond()%int(time.Millisecond))
}
