package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajiwo/throttle/store"
)

func TestMemoryStore_SetIfNotExistsWithTTL(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.SetIfNotExistsWithTTL(ctx, "k", "v1", time.Minute)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.SetIfNotExistsWithTTL(ctx, "k", "v2", time.Minute)
	require.NoError(t, err)
	assert.False(t, created)

	value, present, _, err := s.GetWithTime(ctx, "k")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, "v1", value)
}

func TestMemoryStore_CompareAndSwapWithTTL(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	swapped, err := s.CompareAndSwapWithTTL(ctx, "k", "old", "new", time.Minute)
	require.NoError(t, err)
	assert.False(t, swapped, "key does not exist yet")

	_, err = s.SetIfNotExistsWithTTL(ctx, "k", "v1", time.Minute)
	require.NoError(t, err)

	swapped, err = s.CompareAndSwapWithTTL(ctx, "k", "wrong", "v2", time.Minute)
	require.NoError(t, err)
	assert.False(t, swapped)

	swapped, err = s.CompareAndSwapWithTTL(ctx, "k", "v1", "v2", time.Minute)
	require.NoError(t, err)
	assert.True(t, swapped)

	value, _, _, err := s.GetWithTime(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestMemoryStore_GetWithTime_Absent(t *testing.T) {
	s := store.NewMemoryStore()
	_, present, now, err := s.GetWithTime(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, present)
	assert.False(t, now.IsZero())
}

func TestMemoryStore_VerboseLogsOnWrite(t *testing.T) {
	var messages []string
	s := store.NewVerboseMemoryStore(func(format string, args ...any) {
		messages = append(messages, format)
	})

	_, err := s.SetIfNotExistsWithTTL(context.Background(), "k", "v", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, messages)
}
