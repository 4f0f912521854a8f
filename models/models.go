package models

import (
	"fmt"
	"time"
)

type HabitType string

const (
	HabitGood HabitType = "good"
	HabitBad  HabitType = "bad"
)

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyScheduled Frequency = "scheduled"
)

// Habit хранится списком под ключом "habits"
type Habit struct {
	ID            string    `json:"id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description"`
	Streak        int       `json:"streak" validate:"gte=0"`
	Completed     bool      `json:"completed"`
	LastCompleted string    `json:"lastCompleted,omitempty"`
	CreatedAt     string    `json:"createdAt"`
	HabitType     HabitType `json:"habitType,omitempty" validate:"omitempty,oneof=good bad"`
	Frequency     Frequency `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly scheduled"`
	Reminder      string    `json:"reminder,omitempty"`
	Notifications bool      `json:"notifications"`
	Category      string    `json:"category,omitempty"`
}

// HabitCompletion одна запись журнала выполнений привычки (только дозапись).
type HabitCompletion struct {
	HabitID     string    `json:"habitId" validate:"required"`
	CompletedAt time.Time `json:"completedAt" validate:"required"`
	Points      int       `json:"points" validate:"gte=0"`
}

type UserAchievement struct {
	ID            string    `json:"id" validate:"required"`
	AchievementID string    `json:"achievementId" validate:"required"`
	UserID        string    `json:"userId"`
	EarnedAt      time.Time `json:"earnedAt"`
	Progress      *int      `json:"progress,omitempty"`
	MaxProgress   *int      `json:"maxProgress,omitempty"`
}

type UserProfile struct {
	ID                   string            `json:"id" validate:"required"`
	Name                 string            `json:"name"`
	Points               int               `json:"points" validate:"gte=0"`
	Level                int               `json:"level" validate:"gte=1"`
	Achievements         []UserAchievement `json:"achievements" validate:"dive"`
	TotalHabitsCompleted int               `json:"totalHabitsCompleted" validate:"gte=0"`
	CurrentStreak        int               `json:"currentStreak" validate:"gte=0"`
	LongestStreak        int               `json:"longestStreak" validate:"gte=0"`
}

// HasAchievement сообщает, получено ли уже достижение achievementID.
func (p *UserProfile) HasAchievement(achievementID string) bool {
	for _, ua := range p.Achievements {
		if ua.AchievementID == achievementID {
			return true
		}
	}
	return false
}

type ConditionType string

const (
	ConditionFirstHabit         ConditionType = "first_habit"
	ConditionStreakDays         ConditionType = "streak_days"
	ConditionTotalCompletions   ConditionType = "total_completions"
	ConditionConsecutiveDays    ConditionType = "consecutive_days"
	ConditionCategoryCompletion ConditionType = "category_completion"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type AchievementCategory string

const (
	AchievementStreak    AchievementCategory = "streak"
	AchievementMilestone AchievementCategory = "milestone"
	AchievementSpecial   AchievementCategory = "special"
	AchievementSocial    AchievementCategory = "social"
)

type AchievementCondition struct {
	Type     ConditionType `json:"type"`
	Value    int           `json:"value"`
	HabitID  string        `json:"habitId,omitempty"`
	Category string        `json:"category,omitempty"`
}

type Achievement struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Icon        string               `json:"icon"`
	Condition   AchievementCondition `json:"condition"`
	Points      int                  `json:"points"`
	Rarity      Rarity               `json:"rarity"`
	Category    AchievementCategory  `json:"category"`
}

type Goal struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TargetDate  string    `json:"targetDate" validate:"omitempty,targetdate"`
	CreatedAt   time.Time `json:"createdAt"`
	HabitIDs    []string  `json:"habitIds"`
	Completed   bool      `json:"completed"`
	Category    string    `json:"category,omitempty"`
}

// HasHabit сообщает, привязана ли habitID к цели.
func (g *Goal) HasHabit(habitID string) bool {
	for _, id := range g.HabitIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

type GoalProgress struct {
	GoalID          string  `json:"goalId"`
	TotalHabits     int     `json:"totalHabits"`
	CompletedHabits int     `json:"completedHabits"`
	AverageProgress float64 `json:"averageProgress"`
	DaysRemaining   int     `json:"daysRemaining"`
}

type NotificationType string

const (
	NotificationAchievement NotificationType = "achievement"
	NotificationPoints      NotificationType = "points"
	NotificationLevelUp     NotificationType = "level_up"
)

// Notification показывается в UI всплывающим уведомлением после выполнения.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Icon        string           `json:"icon,omitempty"`
	Points      int              `json:"points,omitempty"`
	Achievement *Achievement     `json:"achievement,omitempty"`
}

// DateLayout формат даты из date picker ("2024-01-31").
const DateLayout = "2006-01-02"

// ParseTargetDate принимает RFC 3339 или голую дату. Голая дата означает
// полночь в loc.
func ParseTargetDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid target date %q", s)
}
