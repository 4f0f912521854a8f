package services

import (
	"context"
	"testing"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoals_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	tr, clock, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))

	g, err := tr.CreateGoal(ctx, GoalInput{
		Title:      "Get fit",
		TargetDate: "2024-03-01",
		HabitIDs:   []string{"a", "b", "a"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, []string{"a", "b"}, g.HabitIDs)
	assert.False(t, g.Completed)
	assert.True(t, clock.Now().Equal(g.CreatedAt))

	got, err := tr.GoalByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Title, got.Title)
	assert.Equal(t, g.HabitIDs, got.HabitIDs)
	assert.True(t, g.CreatedAt.Equal(got.CreatedAt))

	_, err = tr.GoalByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoals_CreateRejectsBadTargetDate(t *testing.T) {
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))

	_, err := tr.CreateGoal(context.Background(), GoalInput{Title: "x", TargetDate: "next week"})
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = tr.CreateGoal(context.Background(), GoalInput{Title: "x", TargetDate: "2024-02-01T10:00:00Z"})
	assert.NoError(t, err)
}

func TestGoals_Delete(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))
	g, err := tr.CreateGoal(ctx, GoalInput{Title: "Temp"})
	require.NoError(t, err)

	ok, err := tr.DeleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = tr.GoalByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	ok, err = tr.DeleteGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGoals_AttachDetach(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))
	g, err := tr.CreateGoal(ctx, GoalInput{Title: "Read more"})
	require.NoError(t, err)

	ok, err := tr.AttachHabit(ctx, g.ID, "h1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.AttachHabit(ctx, g.ID, "h1")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := tr.GoalByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, got.HabitIDs)

	ok, err = tr.DetachHabit(ctx, g.ID, "h1")
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = tr.GoalByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, got.HabitIDs)

	ok, err = tr.AttachHabit(ctx, "missing", "h1")
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.False(t, ok)
	ok, err = tr.DetachHabit(ctx, "missing", "h1")
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.False(t, ok)
}

func TestGoals_Update(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))
	g, err := tr.CreateGoal(ctx, GoalInput{Title: "Old", Description: "keep"})
	require.NoError(t, err)

	title, done := "New", true
	got, err := tr.UpdateGoal(ctx, g.ID, GoalPatch{Title: &title, Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "keep", got.Description)
	assert.True(t, got.Completed)

	bad := "soon"
	_, err = tr.UpdateGoal(ctx, g.ID, GoalPatch{TargetDate: &bad})
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = tr.UpdateGoal(ctx, "missing", GoalPatch{Title: &title})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalProgress(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))

	empty, err := tr.CreateGoal(ctx, GoalInput{Title: "Empty"})
	require.NoError(t, err)
	p, err := tr.GoalProgress(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalProgress{GoalID: empty.ID}, *p)

	h1 := mustCreateHabit(t, tr, "Run")
	h2 := mustCreateHabit(t, tr, "Stretch")
	g, err := tr.CreateGoal(ctx, GoalInput{
		Title:      "Move",
		TargetDate: "2024-01-11",
		HabitIDs:   []string{h1.ID, h2.ID, "deleted-habit"},
	})
	require.NoError(t, err)
	_, err = tr.CompleteHabit(ctx, h1.ID)
	require.NoError(t, err)

	p, err = tr.GoalProgress(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalHabits)
	assert.Equal(t, 1, p.CompletedHabits)
	assert.InDelta(t, 50.0, p.AverageProgress, 0.001)
	assert.Equal(t, 10, p.DaysRemaining)

	_, err = tr.GoalProgress(ctx, "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestDaysRemaining(t *testing.T) {
	clock := newFakeClock(date(2024, 1, 1, 12, 0))
	s := &GoalService{now: clock.Now}

	tests := []struct {
		target string
		want   int
	}{
		{"2024-01-11", 10},
		{"2024-01-02", 1},
		{"2024-01-01T13:00:00Z", 1},
		{"2023-12-01", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, s.daysRemaining(&models.Goal{TargetDate: tt.target}))
		})
	}
}

func TestListGoals(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))
	h := mustCreateHabit(t, tr, "Walk")
	_, err := tr.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)

	mk := func(in GoalInput, completed bool) *models.Goal {
		g, err := tr.CreateGoal(ctx, in)
		require.NoError(t, err)
		if completed {
			_, err = tr.UpdateGoal(ctx, g.ID, GoalPatch{Completed: &completed})
			require.NoError(t, err)
		}
		return g
	}
	beta := mk(GoalInput{Title: "Beta", TargetDate: "2024-05-01", Category: "health"}, false)
	alpha := mk(GoalInput{Title: "Alpha", TargetDate: "2024-03-01", HabitIDs: []string{h.ID}}, true)
	gamma := mk(GoalInput{Title: "Gamma", TargetDate: "2024-04-01", Description: "Health routine"}, false)

	ids := func(gs []models.Goal) []string {
		out := []string{}
		for _, g := range gs {
			out = append(out, g.ID)
		}
		return out
	}

	tests := []struct {
		name string
		q    GoalQuery
		want []string
	}{
		{"stored order", GoalQuery{}, []string{beta.ID, alpha.ID, gamma.ID}},
		{"active", GoalQuery{Status: GoalStatusActive}, []string{beta.ID, gamma.ID}},
		{"completed", GoalQuery{Status: GoalStatusCompleted}, []string{alpha.ID}},
		{"search matches category and description", GoalQuery{Search: "HEALTH"}, []string{beta.ID, gamma.ID}},
		{"by title", GoalQuery{Sort: SortByTitle}, []string{alpha.ID, beta.ID, gamma.ID}},
		{"by date desc", GoalQuery{Sort: SortByDate, Desc: true}, []string{beta.ID, gamma.ID, alpha.ID}},
		{"by progress desc", GoalQuery{Sort: SortByProgress, Desc: true}, []string{alpha.ID, beta.ID, gamma.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.ListGoals(ctx, tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestGoalSummary(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))

	sum, err := tr.GoalSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, GoalSummary{}, sum)

	h := mustCreateHabit(t, tr, "Walk")
	_, err = tr.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)
	_, err = tr.CreateGoal(ctx, GoalInput{Title: "A", HabitIDs: []string{h.ID}})
	require.NoError(t, err)
	g, err := tr.CreateGoal(ctx, GoalInput{Title: "B"})
	require.NoError(t, err)
	done := true
	_, err = tr.UpdateGoal(ctx, g.ID, GoalPatch{Completed: &done})
	require.NoError(t, err)

	sum, err = tr.GoalSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 1, sum.Active)
	assert.InDelta(t, 50.0, sum.AverageProgress, 0.001)
}

func TestUnassignedAndAvailableHabits(t *testing.T) {
	ctx := context.Background()
	tr, _, _ := newTestTracker(t, date(2024, 1, 1, 12, 0))
	h1 := mustCreateHabit(t, tr, "One")
	h2 := mustCreateHabit(t, tr, "Two")
	h3 := mustCreateHabit(t, tr, "Three")

	g1, err := tr.CreateGoal(ctx, GoalInput{Title: "G1", HabitIDs: []string{h1.ID}})
	require.NoError(t, err)
	_, err = tr.CreateGoal(ctx, GoalInput{Title: "G2", HabitIDs: []string{h2.ID}})
	require.NoError(t, err)

	names := func(hs []models.Habit) []string {
		out := []string{}
		for _, h := range hs {
			out = append(out, h.Name)
		}
		return out
	}

	unassigned, err := tr.UnassignedHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{h3.Name}, names(unassigned))

	available, err := tr.AvailableHabitsForGoal(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{h2.Name, h3.Name}, names(available))

	_, err = tr.AvailableHabitsForGoal(ctx, "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoals_MalformedStoreReadsEmpty(t *testing.T) {
	ctx := context.Background()
	tr, _, store := newTestTracker(t, date(2024, 1, 1, 12, 0))
	require.NoError(t, store.Set(ctx, storage.KeyGoals, `{"not":"a list"}`))

	goals, err := tr.ListGoals(ctx, GoalQuery{})
	require.NoError(t, err)
	assert.Empty(t, goals)

	g, err := tr.CreateGoal(ctx, GoalInput{Title: "Fresh"})
	require.NoError(t, err)
	goals, err = tr.ListGoals(ctx, GoalQuery{})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, g.ID, goals[0].ID)
}
