package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SetAndGet(t *testing.T) {
	t.Parallel()

	r := New[string, int]()
	require.NoError(t, r.Set("one", 1))

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("two")
	assert.False(t, ok)
}

func TestRegistry_SetTwice(t *testing.T) {
	t.Parallel()

	r := New[string, string]()
	require.NoError(t, r.Set("key", "first"))

	err := r.Set("key", "second")
	require.Error(t, err)
	assert.True(t, IsKeyAlreadySet(err))
	assert.True(t, errors.Is(err, ErrKeyAlreadySet))

	var keyErr *KeyAlreadySetError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "key", keyErr.Key)
	assert.Contains(t, err.Error(), "key key already set")

	v, _ := r.Get("key")
	assert.Equal(t, "first", v, "failed Set must not mutate")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ZeroValueIsStillSet(t *testing.T) {
	t.Parallel()

	r := New[string, *int]()
	require.NoError(t, r.Set("nil", nil))
	assert.True(t, r.Has("nil"))
	assert.Error(t, r.Set("nil", nil))
}

func TestRegistry_InsertionOrder(t *testing.T) {
	t.Parallel()

	r := New[string, int]()
	for i, k := range []string{"c", "a", "b"} {
		require.NoError(t, r.Set(k, i))
	}

	assert.Equal(t, []string{"c", "a", "b"}, r.Keys())

	var visited []string
	r.ForEach(func(k string, v int) {
		visited = append(visited, k)
	})
	assert.Equal(t, []string{"c", "a", "b"}, visited)
}

func TestRegistry_KeysIsCopy(t *testing.T) {
	t.Parallel()

	r := New[string, int]()
	require.NoError(t, r.Set("a", 1))

	keys := r.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, r.Keys())
}

func TestRegistry_ForEachSkipsEntriesAddedDuringWalk(t *testing.T) {
	t.Parallel()

	r := New[string, int]()
	require.NoError(t, r.Set("a", 1))

	calls := 0
	r.ForEach(func(k string, _ int) {
		calls++
		_ = r.Set(k+"-child", 2)
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, r.Len())
}
