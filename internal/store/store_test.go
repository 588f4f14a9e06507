package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "shopnow_cart_v1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "shopnow_cart_v1", []byte(`[{"id":1}]`)))

	got, err := s.Get(ctx, "shopnow_cart_v1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	require.NoError(t, s.Set(ctx, "shopnow_cart_v1", []byte(`[]`)))
	got, err = s.Get(ctx, "shopnow_cart_v1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "shopnow_products", []byte(`[]`)))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := s2.Get(ctx, "shopnow_products")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestFileStore_Delete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "missing"))

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "../escape/attempt", []byte("v")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(entries[0].Name()), entries[0].Name())

	got, err := s.Get(ctx, "../escape/attempt")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	// Stored value must be isolated from caller mutation.
	got[0] = 'x'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(again))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
