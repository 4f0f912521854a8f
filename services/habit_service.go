package services

import (
	"context"
	"errors"
	"strings"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidHabit  = errors.New("invalid habit")
)

type HabitInput struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	HabitType     models.HabitType `json:"habitType"`
	Frequency     models.Frequency `json:"frequency"`
	Reminder      string           `json:"reminder"`
	Notifications bool             `json:"notifications"`
	Category      string           `json:"category"`
}

// HabitPatch содержит только изменяемые поля.
type HabitPatch struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	HabitType     *models.HabitType `json:"habitType"`
	Frequency     *models.Frequency `json:"frequency"`
	Reminder      *string           `json:"reminder"`
	Notifications *bool             `json:"notifications"`
	Category      *string           `json:"category"`
}

// HabitService реестр привычек под ключом "habits".
type HabitService struct {
	docs documents
	now  Clock
}

func NewHabitService(store storage.Store, logger *zap.Logger, now Clock) *HabitService {
	return &HabitService{
		docs: documents{store: store, logger: logger.With(zap.String("service", "habits"))},
		now:  now,
	}
}

// ListHabits возвращает реестр. Флаг completed, выставленный в прошлый день,
// читается как false.
func (s *HabitService) ListHabits(ctx context.Context) ([]models.Habit, error) {
	habits, _, err := loadList[models.Habit](ctx, s.docs, storage.KeyHabits)
	if err != nil {
		return nil, err
	}
	today := dayKey(s.now())
	for i := range habits {
		h := &habits[i]
		if h.Completed && h.LastCompleted != "" && h.LastCompleted != today {
			h.Completed = false
		}
	}
	return habits, nil
}

func (s *HabitService) saveAll(ctx context.Context, habits []models.Habit) error {
	return s.docs.save(ctx, storage.KeyHabits, habits)
}

func (s *HabitService) HabitByID(ctx context.Context, id string) (*models.Habit, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	for i := range habits {
		if habits[i].ID == id {
			return &habits[i], nil
		}
	}
	return nil, ErrHabitNotFound
}

func (s *HabitService) CreateHabit(ctx context.Context, in HabitInput) (*models.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidHabit
	}
	freq := in.Frequency
	if freq == "" {
		freq = models.FrequencyDaily
	}

	h := models.Habit{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   in.Description,
		CreatedAt:     s.now().Format(timeLayout),
		HabitType:     in.HabitType,
		Frequency:     freq,
		Reminder:      in.Reminder,
		Notifications: in.Notifications,
		Category:      in.Category,
	}
	if err := models.Validate(&h); err != nil {
		return nil, errors.Join(ErrInvalidHabit, err)
	}

	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	habits = append(habits, h)
	if err := s.saveAll(ctx, habits); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, id string, patch HabitPatch) (*models.Habit, error) {
	return s.mutate(ctx, id, func(h *models.Habit) error {
		if patch.Name != nil {
			h.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			h.Description = *patch.Description
		}
		if patch.HabitType != nil {
			h.HabitType = *patch.HabitType
		}
		if patch.Frequency != nil {
			h.Frequency = *patch.Frequency
		}
		if patch.Reminder != nil {
			h.Reminder = *patch.Reminder
		}
		if patch.Notifications != nil {
			h.Notifications = *patch.Notifications
		}
		if patch.Category != nil {
			h.Category = *patch.Category
		}
		if err := models.Validate(h); err != nil {
			return errors.Join(ErrInvalidHabit, err)
		}
		return nil
	})
}

// ToggleHabit переключает флаг completed за сегодня. Серия меняется вместе с
// ним и не уходит ниже нуля.
func (s *HabitService) ToggleHabit(ctx context.Context, id string) (*models.Habit, error) {
	return s.mutate(ctx, id, func(h *models.Habit) error {
		if h.Completed {
			h.Completed = false
			h.LastCompleted = ""
			if h.Streak > 0 {
				h.Streak--
			}
			return nil
		}
		h.Completed = true
		h.LastCompleted = dayKey(s.now())
		h.Streak++
		return nil
	})
}

func (s *HabitService) mutate(ctx context.Context, id string, fn func(*models.Habit) error) (*models.Habit, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	for i := range habits {
		if habits[i].ID != id {
			continue
		}
		updated := habits[i]
		if err := fn(&updated); err != nil {
			return nil, err
		}
		habits[i] = updated
		if err := s.saveAll(ctx, habits); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, ErrHabitNotFound
}

// DeleteHabit удаляет привычку. Журнал выполнений и привязки к целям остаются.
func (s *HabitService) DeleteHabit(ctx context.Context, id string) (bool, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return false, err
	}
	kept := habits[:0]
	for _, h := range habits {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(habits) {
		return false, nil
	}
	return true, s.saveAll(ctx, kept)
}

// SeedDefaultHabits записывает стартовые привычки, если реестр ещё не создавался.
func (s *HabitService) SeedDefaultHabits(ctx context.Context) (bool, error) {
	_, exists, err := loadList[models.Habit](ctx, s.docs, storage.KeyHabits)
	if err != nil || exists {
		return false, err
	}
	if err := s.saveAll(ctx, defaultHabits()); err != nil {
		return false, err
	}
	s.docs.logger.Info("habits_seeded")
	return true, nil
}

func defaultHabits() []models.Habit {
	return []models.Habit{
		{
			ID:            "1",
			Name:          "Drink Water",
			Description:   "Drink 8 glasses of water daily",
			CreatedAt:     "2024-01-01",
			HabitType:     models.HabitGood,
			Frequency:     models.FrequencyDaily,
			Reminder:      "09:00",
			Notifications: true,
		},
		{
			ID:            "2",
			Name:          "Exercise",
			Description:   "30 minutes of physical activity",
			CreatedAt:     "2024-01-01",
			HabitType:     models.HabitGood,
			Frequency:     models.FrequencyDaily,
			Reminder:      "18:00",
			Notifications: true,
		},
		{
			ID:            "3",
			Name:          "Read",
			Description:   "Read for 20 minutes",
			CreatedAt:     "2024-01-01",
			HabitType:     models.HabitGood,
			Frequency:     models.FrequencyDaily,
			Reminder:      "20:00",
			Notifications: true,
		},
	}
}
