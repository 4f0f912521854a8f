package services

import (
	"context"
	"sort"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"go.uber.org/zap"
)

// CompletionService ведёт журналы выполнений привычек (только дозапись).
type CompletionService struct {
	docs documents
	now  Clock
}

func NewCompletionService(store storage.Store, logger *zap.Logger, now Clock) *CompletionService {
	return &CompletionService{
		docs: documents{store: store, logger: logger.With(zap.String("service", "completions"))},
		now:  now,
	}
}

// RecordCompletion дописывает выполнение с текущим временем. Наличие привычки
// в реестре не проверяется.
func (s *CompletionService) RecordCompletion(ctx context.Context, habitID string, points int) (models.HabitCompletion, error) {
	key := storage.CompletionsKey(habitID)
	log, _, err := loadList[models.HabitCompletion](ctx, s.docs, key)
	if err != nil {
		return models.HabitCompletion{}, err
	}

	c := models.HabitCompletion{
		HabitID:     habitID,
		CompletedAt: s.now(),
		Points:      points,
	}
	log = append(log, c)
	if err := s.docs.save(ctx, key, log); err != nil {
		return models.HabitCompletion{}, err
	}

	utils.CompletionCount.Inc()
	return c, nil
}

func (s *CompletionService) Completions(ctx context.Context, habitID string) ([]models.HabitCompletion, error) {
	log, _, err := loadList[models.HabitCompletion](ctx, s.docs, storage.CompletionsKey(habitID))
	return log, err
}

// CurrentStreak считает подряд идущие дни с выполнением, начиная с сегодня.
func (s *CompletionService) CurrentStreak(ctx context.Context, habitID string) (int, error) {
	log, err := s.Completions(ctx, habitID)
	if err != nil {
		return 0, err
	}
	return CurrentStreak(log, s.now()), nil
}

func dayKey(t time.Time) string {
	return t.Format(models.DateLayout)
}

func completionDays(log []models.HabitCompletion, loc *time.Location) map[string]bool {
	days := make(map[string]bool, len(log))
	for _, c := range log {
		days[dayKey(c.CompletedAt.In(loc))] = true
	}
	return days
}

// Серия строгая: без выполнения сегодня она равна 0, даже если вчера
// выполнение было. Дни сравниваются в часовом поясе now.
func CurrentStreak(log []models.HabitCompletion, now time.Time) int {
	if len(log) == 0 {
		return 0
	}
	days := completionDays(log, now.Location())

	streak := 0
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for days[dayKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak самая длинная серия подряд идущих дней в loc.
func LongestStreak(log []models.HabitCompletion, loc *time.Location) int {
	if len(log) == 0 {
		return 0
	}
	days := completionDays(log, loc)

	sorted := make([]time.Time, 0, len(days))
	for k := range days {
		d, _ := time.ParseInLocation(models.DateLayout, k, loc)
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDate(0, 0, 1).Equal(sorted[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
