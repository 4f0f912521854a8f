package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker точка входа для HTTP-обработчиков и CLI. Каждый метод держит одну
// блокировку на всё чтение-изменение-запись.
type Tracker struct {
	mu sync.Mutex

	Profiles     *ProfileService
	Completions  *CompletionService
	Habits       *HabitService
	Achievements *AchievementService
	Goals        *GoalService

	logger *zap.Logger
	now    Clock
}

type Option func(*trackerOptions)

type trackerOptions struct {
	now     Clock
	catalog []models.Achievement
}

// WithClock подменяет time.Now.
func WithClock(now Clock) Option {
	return func(o *trackerOptions) { o.now = now }
}

// WithCatalog подменяет предопределённые достижения.
func WithCatalog(catalog []models.Achievement) Option {
	return func(o *trackerOptions) { o.catalog = catalog }
}

func NewTracker(store storage.Store, logger *zap.Logger, opts ...Option) *Tracker {
	o := trackerOptions{now: time.Now, catalog: Catalog()}
	for _, opt := range opts {
		opt(&o)
	}

	profiles := NewProfileService(store, logger, o.now)
	completions := NewCompletionService(store, logger, o.now)
	habits := NewHabitService(store, logger, o.now)

	return &Tracker{
		Profiles:     profiles,
		Completions:  completions,
		Habits:       habits,
		Achievements: NewAchievementService(o.catalog, completions, habits, profiles, o.now),
		Goals:        NewGoalService(store, habits, logger, o.now),
		logger:       logger,
		now:          o.now,
	}
}

type CompletionResult struct {
	Habit           *models.Habit           `json:"habit"`
	Profile         *models.UserProfile     `json:"profile"`
	Completion      *models.HabitCompletion `json:"completion,omitempty"`
	NewAchievements []models.Achievement    `json:"newAchievements"`
	Notifications   []models.Notification   `json:"notifications"`
}

// CompleteHabit переключает флаг completed. Очки, запись в журнал и проверка
// достижений происходят только при переходе в выполненное состояние.
func (t *Tracker) CompleteHabit(ctx context.Context, habitID string) (*CompletionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.Habits.ToggleHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	res := &CompletionResult{
		Habit:           habit,
		NewAchievements: []models.Achievement{},
		Notifications:   []models.Notification{},
	}
	if !habit.Completed {
		profile, err := t.Profiles.Profile(ctx)
		if err != nil {
			return nil, err
		}
		res.Profile = profile
		return res, nil
	}

	before, err := t.Profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}
	startLevel := before.Level

	profile, err := t.Profiles.AwardCompletionPoints(ctx)
	if err != nil {
		return nil, err
	}
	completion, err := t.Completions.RecordCompletion(ctx, habitID, CompletionPoints)
	if err != nil {
		return nil, err
	}
	res.Completion = &completion

	earned, err := t.Achievements.CheckAchievementConditions(ctx, profile, habitID, &completion.CompletedAt)
	if err != nil {
		return nil, err
	}
	for _, a := range earned {
		if _, err := t.Profiles.AwardAchievement(ctx, a); err != nil {
			return nil, err
		}
		a := a
		res.Notifications = append(res.Notifications, models.Notification{
			ID:          uuid.NewString(),
			Type:        models.NotificationAchievement,
			Title:       "🎉 Новое достижение!",
			Message:     fmt.Sprintf("Получено достижение \"%s\"", a.Title),
			Icon:        a.Icon,
			Points:      a.Points,
			Achievement: &a,
		})
	}
	res.NewAchievements = append(res.NewAchievements, earned...)

	res.Notifications = append(res.Notifications, models.Notification{
		ID:      uuid.NewString(),
		Type:    models.NotificationPoints,
		Title:   "⭐ Очки получены!",
		Message: fmt.Sprintf("+%d очков за выполнение \"%s\"", CompletionPoints, habit.Name),
		Points:  CompletionPoints,
	})

	streak, err := t.Completions.CurrentStreak(ctx, habitID)
	if err != nil {
		return nil, err
	}
	profile, err = t.Profiles.RecordStreak(ctx, streak)
	if err != nil {
		return nil, err
	}
	res.Profile = profile

	if profile.Level > startLevel {
		res.Notifications = append(res.Notifications, models.Notification{
			ID:      uuid.NewString(),
			Type:    models.NotificationLevelUp,
			Title:   "🚀 Новый уровень!",
			Message: fmt.Sprintf("Вы достигли уровня %d", profile.Level),
		})
	}

	t.logger.Info("habit_completed",
		zap.String("habit_id", habitID),
		zap.Int("points", profile.Points),
		zap.Int("level", profile.Level),
		zap.Int("new_achievements", len(earned)),
		zap.Int("streak", streak),
	)
	return res, nil
}

// Профиль

type ProfileView struct {
	Profile *models.UserProfile `json:"profile"`
	Level   LevelInfo           `json:"levelInfo"`
}

func (t *Tracker) Profile(ctx context.Context) (*ProfileView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.Profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: p, Level: levelInfo(p)}, nil
}

// Достижения

type AchievementView struct {
	models.Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
	Progress Progress   `json:"progress"`
}

func (t *Tracker) ListAchievements(ctx context.Context, f CatalogFilter) ([]AchievementView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.Profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[string]time.Time, len(p.Achievements))
	for _, ua := range p.Achievements {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	catalog := t.Achievements.FilterCatalog(f)
	out := make([]AchievementView, 0, len(catalog))
	for _, a := range catalog {
		prog, err := t.Achievements.AchievementProgress(ctx, a)
		if err != nil {
			return nil, err
		}
		v := AchievementView{Achievement: a, Progress: prog}
		if at, ok := earnedAt[a.ID]; ok {
			v.Earned = true
			v.EarnedAt = &at
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Tracker) AchievementSummary(ctx context.Context) (AchievementSummary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Achievements.Summary(ctx)
}

// Привычки

func (t *Tracker) ListHabits(ctx context.Context) ([]models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Habits.ListHabits(ctx)
}

func (t *Tracker) HabitByID(ctx context.Context, id string) (*models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Habits.HabitByID(ctx, id)
}

func (t *Tracker) CreateHabit(ctx context.Context, in HabitInput) (*models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Habits.CreateHabit(ctx, in)
}

func (t *Tracker) UpdateHabit(ctx context.Context, id string, patch HabitPatch) (*models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Habits.UpdateHabit(ctx, id, patch)
}

func (t *Tracker) DeleteHabit(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Habits.DeleteHabit(ctx, id)
}

func (t *Tracker) SeedDefaultHabits(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Habits.SeedDefaultHabits(ctx)
}

type CompletionLog struct {
	HabitID       string                   `json:"habitId"`
	Completions   []models.HabitCompletion `json:"completions"`
	CurrentStreak int                      `json:"currentStreak"`
	LongestStreak int                      `json:"longestStreak"`
}

// HabitCompletions возвращает журнал привычки. Журнал неизвестной привычки допустим.
func (t *Tracker) HabitCompletions(ctx context.Context, habitID string) (*CompletionLog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	log, err := t.Completions.Completions(ctx, habitID)
	if err != nil {
		return nil, err
	}
	now := t.now()
	return &CompletionLog{
		HabitID:       habitID,
		Completions:   log,
		CurrentStreak: CurrentStreak(log, now),
		LongestStreak: LongestStreak(log, now.Location()),
	}, nil
}

func (t *Tracker) HabitStats(ctx context.Context) (*UserHabitStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return CalculateHabitStats(ctx, t.Habits, t.Completions, t.now, t.logger)
}

// Цели

func (t *Tracker) CreateGoal(ctx context.Context, in GoalInput) (*models.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.CreateGoal(ctx, in)
}

func (t *Tracker) GoalByID(ctx context.Context, id string) (*models.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.GoalByID(ctx, id)
}

func (t *Tracker) ListGoals(ctx context.Context, q GoalQuery) ([]models.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.ListGoals(ctx, q)
}

func (t *Tracker) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*models.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.UpdateGoal(ctx, id, patch)
}

func (t *Tracker) DeleteGoal(ctx context.Context, id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.DeleteGoal(ctx, id)
}

func (t *Tracker) AttachHabit(ctx context.Context, goalID, habitID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.AttachHabit(ctx, goalID, habitID)
}

func (t *Tracker) DetachHabit(ctx context.Context, goalID, habitID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.DetachHabit(ctx, goalID, habitID)
}

func (t *Tracker) GoalProgress(ctx context.Context, goalID string) (*models.GoalProgress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.GoalProgress(ctx, goalID)
}

func (t *Tracker) GoalSummary(ctx context.Context) (GoalSummary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.Summary(ctx)
}

func (t *Tracker) UnassignedHabits(ctx context.Context) ([]models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.UnassignedHabits(ctx)
}

func (t *Tracker) AvailableHabitsForGoal(ctx context.Context, goalID string) ([]models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Goals.AvailableHabitsForGoal(ctx, goalID)
}
