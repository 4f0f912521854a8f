package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissingKey(t *testing.T) {
	s := NewMemoryStore()

	v, ok, err := s.Get(context.Background(), KeyUserProfile)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestMemoryStore_SetThenGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, KeyGoals, `[]`))
	require.NoError(t, s.Set(ctx, KeyGoals, `[{"id":"g1"}]`))

	v, ok, err := s.Get(ctx, KeyGoals)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"g1"}]`, v)
	assert.ElementsMatch(t, []string{KeyGoals}, s.Keys())
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	_, _, err := s.Get(ctx, KeyHabits)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Set(ctx, KeyHabits, "[]"), ErrClosed)
}

func TestCompletionsKey(t *testing.T) {
	assert.Equal(t, "habitCompletions_42", CompletionsKey("42"))
}
