package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetDefault(t *testing.T) {
	s := Open(t.TempDir())

	v, err := s.Get("missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestStore_SetGetDelete(t *testing.T) {
	s := Open(t.TempDir())

	require.NoError(t, s.Set("theme", "dark"))
	v, err := s.Get("theme", "")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	require.NoError(t, s.Set("theme", "light"))
	v, err = s.Get("theme", "")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, s.Delete("theme"))
	v, err = s.Get("theme", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", v)

	// second delete is a no-op
	assert.NoError(t, s.Delete("theme"))
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Open(dir).Set(KeyOverlayPinned, "true"))

	v, err := Open(dir).Get(KeyOverlayPinned, "false")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestStore_KeysWithSlashes(t *testing.T) {
	s := Open(t.TempDir())

	require.NoError(t, s.Set("ui/sidebar/width", "240"))
	require.NoError(t, s.Set("a", "1"))

	assert.Equal(t, []string{"a", "ui/sidebar/width"}, s.Keys(context.Background()))
}

func TestStore_EmptyKey(t *testing.T) {
	s := Open(t.TempDir())

	_, err := s.Get("", "x")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.Set("", "x"), ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(""), ErrEmptyKey)
}
