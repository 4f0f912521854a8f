package services

import (
	"context"
	"testing"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadDoc_MalformedIsLoggedAndReset(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	store := storage.NewMemoryStore()
	d := documents{store: store, logger: zap.New(core)}

	require.NoError(t, store.Set(ctx, storage.KeyUserProfile, `{"id":`))
	var p models.UserProfile
	ok, err := d.loadDoc(ctx, storage.KeyUserProfile, &p)
	require.NoError(t, err)
	assert.False(t, ok)

	entries := logs.FilterMessage("store_document_reset").All()
	require.Len(t, entries, 1)
	assert.Equal(t, storage.KeyUserProfile, entries[0].ContextMap()["key"])
}

func TestLoadList_DropsInvalidRecordsOneByOne(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	store := storage.NewMemoryStore()
	d := documents{store: store, logger: zap.New(core)}

	key := storage.CompletionsKey("h1")
	require.NoError(t, store.Set(ctx, key, `[
		{"habitId":"h1","completedAt":"2024-01-01T09:00:00Z","points":10},
		{"habitId":"h1","completedAt":"yesterday","points":10},
		{"completedAt":"2024-01-02T09:00:00Z","points":10},
		{"habitId":"h1","completedAt":"2024-01-03T09:00:00Z","points":10}
	]`))

	list, exists, err := loadList[models.HabitCompletion](ctx, d, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, logs.FilterMessage("store_record_dropped").Len())
}

func TestLoadList_MissingKey(t *testing.T) {
	d := documents{store: storage.NewMemoryStore(), logger: zap.NewNop()}

	list, exists, err := loadList[models.Goal](context.Background(), d, storage.KeyGoals)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
