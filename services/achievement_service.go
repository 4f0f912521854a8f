package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
)

// AchievementService определяет, какие достижения каталога профиль только что
// заработал. Прогресс не хранится, каждая проверка проходит каталог заново.
type AchievementService struct {
	catalog     []models.Achievement
	completions *CompletionService
	habits      *HabitService
	profiles    *ProfileService
	now         Clock
}

func NewAchievementService(catalog []models.Achievement, completions *CompletionService, habits *HabitService, profiles *ProfileService, now Clock) *AchievementService {
	return &AchievementService{
		catalog:     catalog,
		completions: completions,
		habits:      habits,
		profiles:    profiles,
		now:         now,
	}
}

// CheckAchievementConditions возвращает в порядке каталога неполученные
// достижения, условие которых выполнено. habitID и completedAt могут быть
// пустыми, тогда зависящие от них условия не выполняются.
func (s *AchievementService) CheckAchievementConditions(ctx context.Context, profile *models.UserProfile, habitID string, completedAt *time.Time) ([]models.Achievement, error) {
	var earned []models.Achievement
	for _, a := range s.catalog {
		if profile.HasAchievement(a.ID) {
			continue
		}
		ok, err := s.satisfied(ctx, a.Condition, profile, habitID, completedAt)
		if err != nil {
			return nil, err
		}
		if ok {
			earned = append(earned, a)
		}
	}
	return earned, nil
}

func (s *AchievementService) satisfied(ctx context.Context, cond models.AchievementCondition, profile *models.UserProfile, habitID string, completedAt *time.Time) (bool, error) {
	switch cond.Type {
	case models.ConditionFirstHabit:
		return profile.TotalHabitsCompleted >= cond.Value, nil

	case models.ConditionStreakDays:
		if habitID == "" {
			return false, nil
		}
		streak, err := s.completions.CurrentStreak(ctx, habitID)
		if err != nil {
			return false, err
		}
		return streak >= cond.Value, nil

	case models.ConditionTotalCompletions:
		if habitID == "" {
			return false, nil
		}
		log, err := s.completions.Completions(ctx, habitID)
		if err != nil {
			return false, err
		}
		return len(log) >= cond.Value, nil

	case models.ConditionConsecutiveDays:
		if habitID == "" || completedAt == nil {
			return false, nil
		}
		return s.timeOfDaySatisfied(ctx, cond, habitID, *completedAt)

	case models.ConditionCategoryCompletion:
		habits, err := s.habits.ListHabits(ctx)
		if err != nil {
			return false, err
		}
		return CountCategoryHabits(habits, cond.Category) >= cond.Value, nil
	}
	return false, nil
}

// hourWindow возвращает окно времени суток для часа:
// [5,8) утро, [22,24) ночь.
func hourWindow(hour int) string {
	switch {
	case hour >= 5 && hour < 8:
		return WindowMorning
	case hour >= 22 && hour <= 23:
		return WindowNight
	}
	return ""
}

func (s *AchievementService) timeOfDaySatisfied(ctx context.Context, cond models.AchievementCondition, habitID string, completedAt time.Time) (bool, error) {
	loc := s.now().Location()
	window := hourWindow(completedAt.In(loc).Hour())
	if window == "" {
		return false, nil
	}
	if cond.Category != "" && cond.Category != window {
		return false, nil
	}

	log, err := s.completions.Completions(ctx, habitID)
	if err != nil {
		return false, err
	}
	count := 0
	for _, c := range log {
		if hourWindow(c.CompletedAt.In(loc).Hour()) == window {
			count++
		}
	}
	return count >= cond.Value, nil
}

// CountCategoryHabits считает привычки с категорией category или с одним из
// её ключевых слов в названии.
func CountCategoryHabits(habits []models.Habit, category string) int {
	keywords := categoryKeywords[category]
	n := 0
	for _, h := range habits {
		if category != "" && h.Category == category {
			n++
			continue
		}
		name := strings.ToLower(h.Name)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				n++
				break
			}
		}
	}
	return n
}

type Progress struct {
	Current    int     `json:"current"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

func newProgress(current, target int) Progress {
	if target <= 0 {
		return Progress{Max: 1}
	}
	return Progress{
		Current:    min(current, target),
		Max:        target,
		Percentage: math.Min(float64(current)/float64(target)*100, 100),
	}
}

// AchievementProgress показывает прогресс профиля к достижению a. Прогресс есть
// у first_habit, total_completions и streak_days; последним двум нужен
// condition.habitId.
func (s *AchievementService) AchievementProgress(ctx context.Context, a models.Achievement) (Progress, error) {
	cond := a.Condition
	switch cond.Type {
	case models.ConditionFirstHabit:
		p, err := s.profiles.Profile(ctx)
		if err != nil {
			return Progress{}, err
		}
		return newProgress(p.TotalHabitsCompleted, cond.Value), nil

	case models.ConditionTotalCompletions:
		n := 0
		if cond.HabitID != "" {
			log, err := s.completions.Completions(ctx, cond.HabitID)
			if err != nil {
				return Progress{}, err
			}
			n = len(log)
		}
		return newProgress(n, cond.Value), nil

	case models.ConditionStreakDays:
		n := 0
		if cond.HabitID != "" {
			streak, err := s.completions.CurrentStreak(ctx, cond.HabitID)
			if err != nil {
				return Progress{}, err
			}
			n = streak
		}
		return newProgress(n, cond.Value), nil
	}
	return Progress{Max: 1}, nil
}

type CatalogFilter struct {
	Search   string
	Category models.AchievementCategory
	Rarity   models.Rarity
}

// FilterCatalog ищет search в названии и описании. Пустые category и rarity
// означают любые.
func (s *AchievementService) FilterCatalog(f CatalogFilter) []models.Achievement {
	search := strings.ToLower(f.Search)
	out := []models.Achievement{}
	for _, a := range s.catalog {
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Description), search) {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.Rarity != "" && a.Rarity != f.Rarity {
			continue
		}
		out = append(out, a)
	}
	return out
}

type AchievementSummary struct {
	Earned               int                      `json:"earned"`
	Total                int                      `json:"total"`
	CompletionPercentage int                      `json:"completionPercentage"`
	Top                  []models.UserAchievement `json:"top"`
}

// Summary считает полученные достижения и сортирует их по награде, от большей.
func (s *AchievementService) Summary(ctx context.Context) (AchievementSummary, error) {
	p, err := s.profiles.Profile(ctx)
	if err != nil {
		return AchievementSummary{}, err
	}

	reward := func(ua models.UserAchievement) int {
		a, _ := s.lookup(ua.AchievementID)
		return a.Points
	}
	top := make([]models.UserAchievement, len(p.Achievements))
	copy(top, p.Achievements)
	sort.SliceStable(top, func(i, j int) bool { return reward(top[i]) > reward(top[j]) })

	sum := AchievementSummary{
		Earned: len(p.Achievements),
		Total:  len(s.catalog),
		Top:    top,
	}
	if sum.Total > 0 {
		sum.CompletionPercentage = int(math.Round(float64(sum.Earned) / float64(sum.Total) * 100))
	}
	return sum, nil
}

func (s *AchievementService) lookup(id string) (models.Achievement, bool) {
	for _, a := range s.catalog {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}
