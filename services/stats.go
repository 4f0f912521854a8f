package services

import (
	"context"
	"sync"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"go.uber.org/zap"
)

type HabitStats struct {
	HabitID          string  `json:"habitId"`
	Name             string  `json:"name"`
	TotalCompletions int     `json:"totalCompletions"`
	PointsEarned     int     `json:"pointsEarned"`
	CurrentStreak    int     `json:"currentStreak"`
	LongestStreak    int     `json:"longestStreak"`
	Error            error   `json:"-"`
	CompletedToday   bool    `json:"completedToday"`
	ShareOfTotal     float64 `json:"shareOfTotal"`
}

type UserHabitStats struct {
	TotalHabits      int           `json:"totalHabits"`
	CompletedToday   int           `json:"completedToday"`
	TotalCompletions int           `json:"totalCompletions"`
	HabitStats       []HabitStats  `json:"habitStats"`
	ProcessingTime   time.Duration `json:"processingTimeNs"`
}

// CalculateHabitStats читает журнал каждой привычки в отдельной горутине и
// собирает результаты через канал. Порядок как в реестре.
func CalculateHabitStats(ctx context.Context, habits *HabitService, completions *CompletionService, now Clock, logger *zap.Logger) (*UserHabitStats, error) {
	start := time.Now()

	list, err := habits.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	result := &UserHabitStats{TotalHabits: len(list), HabitStats: []HabitStats{}}
	if len(list) == 0 {
		return result, nil
	}

	today := now()
	statsChan := make(chan HabitStats, len(list))
	var wg sync.WaitGroup

	for _, habit := range list {
		wg.Add(1)
		go func(h models.Habit) {
			defer wg.Done()
			statsChan <- singleHabitStats(ctx, h, completions, today)
		}(habit)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	byID := make(map[string]HabitStats, len(list))
	for stat := range statsChan {
		if stat.Error != nil {
			logger.Warn("habit_stats_error",
				zap.String("habit_id", stat.HabitID),
				zap.Error(stat.Error),
			)
			continue
		}
		byID[stat.HabitID] = stat
		result.TotalCompletions += stat.TotalCompletions
	}

	for _, h := range list {
		stat, ok := byID[h.ID]
		if !ok {
			continue
		}
		if result.TotalCompletions > 0 {
			stat.ShareOfTotal = float64(stat.TotalCompletions) / float64(result.TotalCompletions) * 100
		}
		if stat.CompletedToday {
			result.CompletedToday++
		}
		result.HabitStats = append(result.HabitStats, stat)
	}

	result.ProcessingTime = time.Since(start)
	logger.Info("stats_calculated_concurrently",
		zap.Int("habits_count", len(list)),
		zap.Duration("duration", result.ProcessingTime),
	)
	return result, nil
}

func singleHabitStats(ctx context.Context, h models.Habit, completions *CompletionService, now time.Time) HabitStats {
	stats := HabitStats{HabitID: h.ID, Name: h.Name, CompletedToday: h.Completed}

	log, err := completions.Completions(ctx, h.ID)
	if err != nil {
		stats.Error = err
		return stats
	}

	stats.TotalCompletions = len(log)
	for _, c := range log {
		stats.PointsEarned += c.Points
	}
	stats.CurrentStreak = CurrentStreak(log, now)
	stats.LongestStreak = LongestStreak(log, now.Location())
	return stats
}
