package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func date(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func newTestTracker(t *testing.T, start time.Time) (*Tracker, *fakeClock, *storage.MemoryStore) {
	t.Helper()
	clock := newFakeClock(start)
	store := storage.NewMemoryStore()
	return NewTracker(store, zap.NewNop(), WithClock(clock.Now)), clock, store
}

func mustCreateHabit(t *testing.T, tr *Tracker, name string) *models.Habit {
	t.Helper()
	h, err := tr.CreateHabit(context.Background(), HabitInput{Name: name})
	require.NoError(t, err)
	return h
}

func achievementIDs(as []models.Achievement) []string {
	ids := make([]string, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}

// logCompletions дописывает выполнения с заданным временем прямо в журнал.
func logCompletions(t *testing.T, tr *Tracker, clock *fakeClock, habitID string, times ...time.Time) {
	t.Helper()
	orig := clock.Now()
	defer clock.Set(orig)
	for _, at := range times {
		clock.Set(at)
		_, err := tr.Completions.RecordCompletion(context.Background(), habitID, CompletionPoints)
		require.NoError(t, err)
	}
}

func newMemStore() *storage.MemoryStore {
	return storage.NewMemoryStore()
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
