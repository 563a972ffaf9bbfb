package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore("test-bucket")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "2023-11-14/a.json", []byte(`{"x":1}`), "application/json"))

	data, err := s.Get(ctx, "2023-11-14/a.json")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(data))
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore("test-bucket")

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore("test-bucket")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("first"), "application/json"))
	require.NoError(t, s.Put(ctx, "k", []byte("second"), "application/json"))

	data, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreListSortedAndEarlyStop(t *testing.T) {
	s := NewMemoryStore("test-bucket")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "b", []byte("2"), ""))
	require.NoError(t, s.Put(ctx, "a", []byte("1"), ""))
	require.NoError(t, s.Put(ctx, "c", []byte("3"), ""))

	var seen []string
	err := s.List(ctx, func(info ObjectInfo) error {
		seen = append(seen, info.Key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	stop := assert.AnError
	seen = nil
	err = s.List(ctx, func(info ObjectInfo) error {
		seen = append(seen, info.Key)
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Len(t, seen, 1)
}

func TestMemoryStoreURI(t *testing.T) {
	s := NewMemoryStore("reports")
	assert.Equal(t, "s3://reports/2023-11-14/a.json", s.URI("2023-11-14/a.json"))
}
