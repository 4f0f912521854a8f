package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidGoal  = errors.New("invalid goal")
)

const day = 24 * time.Hour

// GoalInput входные данные CreateGoal. Title здесь может быть пустым,
// его проверяет слой представления.
type GoalInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TargetDate  string   `json:"targetDate"`
	Category    string   `json:"category"`
	HabitIDs    []string `json:"habitIds"`
}

type GoalPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	TargetDate  *string   `json:"targetDate"`
	HabitIDs    *[]string `json:"habitIds"`
	Completed   *bool     `json:"completed"`
	Category    *string   `json:"category"`
}

type GoalStatus string

const (
	GoalStatusAll       GoalStatus = "all"
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
)

type GoalSort string

const (
	SortByDate     GoalSort = "date"
	SortByProgress GoalSort = "progress"
	SortByTitle    GoalSort = "title"
)

// GoalQuery фильтрует и сортирует ListGoals. Нулевое значение отдаёт все цели
// в порядке хранения.
type GoalQuery struct {
	Status GoalStatus
	Search string
	Sort   GoalSort
	Desc   bool
}

type GoalSummary struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	Active          int     `json:"active"`
	AverageProgress float64 `json:"averageProgress"`
}

// GoalService ведёт список целей и считает прогресс по реестру привычек.
type GoalService struct {
	docs   documents
	habits *HabitService
	now    Clock
}

func NewGoalService(store storage.Store, habits *HabitService, logger *zap.Logger, now Clock) *GoalService {
	return &GoalService{
		docs:   documents{store: store, logger: logger.With(zap.String("service", "goals"))},
		habits: habits,
		now:    now,
	}
}

func (s *GoalService) load(ctx context.Context) ([]models.Goal, error) {
	goals, _, err := loadList[models.Goal](ctx, s.docs, storage.KeyGoals)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].HabitIDs == nil {
			goals[i].HabitIDs = []string{}
		}
	}
	return goals, nil
}

func (s *GoalService) saveAll(ctx context.Context, goals []models.Goal) error {
	return s.docs.save(ctx, storage.KeyGoals, goals)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *GoalService) CreateGoal(ctx context.Context, in GoalInput) (*models.Goal, error) {
	g := models.Goal{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		TargetDate:  in.TargetDate,
		CreatedAt:   s.now(),
		HabitIDs:    dedupe(in.HabitIDs),
		Category:    in.Category,
	}
	if err := models.Validate(&g); err != nil {
		return nil, errors.Join(ErrInvalidGoal, err)
	}

	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	goals = append(goals, g)
	if err := s.saveAll(ctx, goals); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GoalService) GoalByID(ctx context.Context, id string) (*models.Goal, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i], nil
		}
	}
	return nil, ErrGoalNotFound
}

// UpdateGoal переносит ненулевые поля patch в сохранённую цель.
func (s *GoalService) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*models.Goal, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID != id {
			continue
		}
		g := goals[i]
		if patch.Title != nil {
			g.Title = *patch.Title
		}
		if patch.Description != nil {
			g.Description = *patch.Description
		}
		if patch.TargetDate != nil {
			g.TargetDate = *patch.TargetDate
		}
		if patch.HabitIDs != nil {
			g.HabitIDs = dedupe(*patch.HabitIDs)
		}
		if patch.Completed != nil {
			g.Completed = *patch.Completed
		}
		if patch.Category != nil {
			g.Category = *patch.Category
		}
		if err := models.Validate(&g); err != nil {
			return nil, errors.Join(ErrInvalidGoal, err)
		}

		goals[i] = g
		if err := s.saveAll(ctx, goals); err != nil {
			return nil, err
		}
		return &g, nil
	}
	return nil, ErrGoalNotFound
}

func (s *GoalService) DeleteGoal(ctx context.Context, id string) (bool, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(goals) {
		return false, nil
	}
	return true, s.saveAll(ctx, kept)
}

// AttachHabit привязывает habitID к цели. Возвращает false, если привычка уже
// привязана, и false с ErrGoalNotFound, если цели нет.
func (s *GoalService) AttachHabit(ctx context.Context, goalID, habitID string) (bool, error) {
	g, err := s.GoalByID(ctx, goalID)
	if err != nil {
		return false, err
	}
	if g.HasHabit(habitID) {
		return false, nil
	}
	ids := append(g.HabitIDs, habitID)
	if _, err := s.UpdateGoal(ctx, goalID, GoalPatch{HabitIDs: &ids}); err != nil {
		return false, err
	}
	return true, nil
}

// DetachHabit отвязывает habitID и возвращает true, если цель существует.
func (s *GoalService) DetachHabit(ctx context.Context, goalID, habitID string) (bool, error) {
	g, err := s.GoalByID(ctx, goalID)
	if err != nil {
		return false, err
	}
	ids := make([]string, 0, len(g.HabitIDs))
	for _, id := range g.HabitIDs {
		if id != habitID {
			ids = append(ids, id)
		}
	}
	if _, err := s.UpdateGoal(ctx, goalID, GoalPatch{HabitIDs: &ids}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *GoalService) GoalProgress(ctx context.Context, goalID string) (*models.GoalProgress, error) {
	g, err := s.GoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	p := s.progress(g, habits)
	return &p, nil
}

// progress учитывает только привязанные привычки, которые есть в реестре;
// ссылки на удалённые игнорируются.
func (s *GoalService) progress(g *models.Goal, habits []models.Habit) models.GoalProgress {
	p := models.GoalProgress{GoalID: g.ID}
	for _, h := range habits {
		if !g.HasHabit(h.ID) {
			continue
		}
		p.TotalHabits++
		if h.Completed {
			p.CompletedHabits++
		}
	}
	if p.TotalHabits > 0 {
		p.AverageProgress = float64(p.CompletedHabits) / float64(p.TotalHabits) * 100
	}
	p.DaysRemaining = s.daysRemaining(g)
	return p
}

func (s *GoalService) daysRemaining(g *models.Goal) int {
	now := s.now()
	target, err := models.ParseTargetDate(g.TargetDate, now.Location())
	if err != nil {
		return 0
	}
	days := int(math.Ceil(float64(target.Sub(now)) / float64(day)))
	return max(0, days)
}

func (s *GoalService) ListGoals(ctx context.Context, q GoalQuery) ([]models.Goal, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(q.Search)
	out := make([]models.Goal, 0, len(goals))
	for _, g := range goals {
		switch q.Status {
		case GoalStatusActive:
			if g.Completed {
				continue
			}
		case GoalStatusCompleted:
			if !g.Completed {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(g.Title), search) &&
			!strings.Contains(strings.ToLower(g.Description), search) &&
			!strings.Contains(strings.ToLower(g.Category), search) {
			continue
		}
		out = append(out, g)
	}

	if q.Sort == "" {
		return out, nil
	}

	var compare func(a, b *models.Goal) int
	switch q.Sort {
	case SortByDate:
		loc := s.now().Location()
		compare = func(a, b *models.Goal) int {
			ta, _ := models.ParseTargetDate(a.TargetDate, loc)
			tb, _ := models.ParseTargetDate(b.TargetDate, loc)
			return ta.Compare(tb)
		}
	case SortByTitle:
		compare = func(a, b *models.Goal) int { return strings.Compare(a.Title, b.Title) }
	case SortByProgress:
		habits, err := s.habits.ListHabits(ctx)
		if err != nil {
			return nil, err
		}
		prog := make(map[string]float64, len(out))
		for i := range out {
			prog[out[i].ID] = s.progress(&out[i], habits).AverageProgress
		}
		compare = func(a, b *models.Goal) int {
			switch pa, pb := prog[a.ID], prog[b.ID]; {
			case pa < pb:
				return -1
			case pa > pb:
				return 1
			}
			return 0
		}
	default:
		return out, nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(&out[i], &out[j])
		if q.Desc {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

func (s *GoalService) Summary(ctx context.Context) (GoalSummary, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return GoalSummary{}, err
	}
	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return GoalSummary{}, err
	}

	sum := GoalSummary{Total: len(goals)}
	var total float64
	for i := range goals {
		if goals[i].Completed {
			sum.Completed++
		}
		total += s.progress(&goals[i], habits).AverageProgress
	}
	sum.Active = sum.Total - sum.Completed
	if sum.Total > 0 {
		sum.AverageProgress = total / float64(sum.Total)
	}
	return sum, nil
}

// UnassignedHabits возвращает привычки без цели.
func (s *GoalService) UnassignedHabits(ctx context.Context) ([]models.Habit, error) {
	goals, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]bool)
	for _, g := range goals {
		for _, id := range g.HabitIDs {
			assigned[id] = true
		}
	}
	out := []models.Habit{}
	for _, h := range habits {
		if !assigned[h.ID] {
			out = append(out, h)
		}
	}
	return out, nil
}

// AvailableHabitsForGoal возвращает привычки, ещё не привязанные к goalID.
func (s *GoalService) AvailableHabitsForGoal(ctx context.Context, goalID string) ([]models.Habit, error) {
	g, err := s.GoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Habit{}
	for _, h := range habits {
		if !g.HasHabit(h.ID) {
			out = append(out, h)
		}
	}
	return out, nil
}
