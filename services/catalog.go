package services

import "github.com/IWTDPLZZZ/Habit-Tracker/models"

// Окна времени суток для условий consecutive_days. Через condition.category
// условие можно ограничить одним окном.
const (
	WindowMorning = "morning"
	WindowNight   = "night"
)

var predefinedAchievements = []models.Achievement{
	{
		ID:          "first_habit",
		Title:       "Новичок",
		Description: "Выполните свою первую привычку",
		Icon:        "🌟",
		Condition:   models.AchievementCondition{Type: models.ConditionFirstHabit, Value: 1},
		Points:      50,
		Rarity:      models.RarityCommon,
		Category:    models.AchievementMilestone,
	},
	{
		ID:          "streak_7",
		Title:       "Железная воля",
		Description: "Выполняйте привычку 7 дней подряд",
		Icon:        "💪",
		Condition:   models.AchievementCondition{Type: models.ConditionStreakDays, Value: 7},
		Points:      100,
		Rarity:      models.RarityRare,
		Category:    models.AchievementStreak,
	},
	{
		ID:          "streak_30",
		Title:       "Марафонец",
		Description: "Выполняйте привычку 30 дней подряд",
		Icon:        "🏃‍♂️",
		Condition:   models.AchievementCondition{Type: models.ConditionStreakDays, Value: 30},
		Points:      500,
		Rarity:      models.RarityEpic,
		Category:    models.AchievementStreak,
	},
	{
		ID:          "completions_10",
		Title:       "Постоянство",
		Description: "Выполните привычку 10 раз",
		Icon:        "🎯",
		Condition:   models.AchievementCondition{Type: models.ConditionTotalCompletions, Value: 10},
		Points:      150,
		Rarity:      models.RarityCommon,
		Category:    models.AchievementMilestone,
	},
	{
		ID:          "completions_50",
		Title:       "Мастер привычек",
		Description: "Выполните привычку 50 раз",
		Icon:        "👑",
		Condition:   models.AchievementCondition{Type: models.ConditionTotalCompletions, Value: 50},
		Points:      750,
		Rarity:      models.RarityEpic,
		Category:    models.AchievementMilestone,
	},
	{
		ID:          "completions_100",
		Title:       "Легенда",
		Description: "Выполните привычку 100 раз",
		Icon:        "🏆",
		Condition:   models.AchievementCondition{Type: models.ConditionTotalCompletions, Value: 100},
		Points:      1500,
		Rarity:      models.RarityLegendary,
		Category:    models.AchievementMilestone,
	},
	{
		ID:          "health_master",
		Title:       "Мастер здоровья",
		Description: "Создайте 5 привычек в категории здоровья",
		Icon:        "💚",
		Condition:   models.AchievementCondition{Type: models.ConditionCategoryCompletion, Value: 5, Category: "health"},
		Points:      300,
		Rarity:      models.RarityRare,
		Category:    models.AchievementSpecial,
	},
	{
		ID:          "productivity_guru",
		Title:       "Гуру продуктивности",
		Description: "Создайте 5 привычек в категории продуктивности",
		Icon:        "⚡",
		Condition:   models.AchievementCondition{Type: models.ConditionCategoryCompletion, Value: 5, Category: "productivity"},
		Points:      300,
		Rarity:      models.RarityRare,
		Category:    models.AchievementSpecial,
	},
	{
		ID:          "early_bird",
		Title:       "Ранняя пташка",
		Description: "Выполните привычку до 8:00 утра 10 раз",
		Icon:        "🐦",
		Condition:   models.AchievementCondition{Type: models.ConditionConsecutiveDays, Value: 10},
		Points:      200,
		Rarity:      models.RarityRare,
		Category:    models.AchievementSpecial,
	},
	{
		ID:          "night_owl",
		Title:       "Ночная сова",
		Description: "Выполните привычку после 22:00 10 раз",
		Icon:        "🦉",
		Condition:   models.AchievementCondition{Type: models.ConditionConsecutiveDays, Value: 10},
		Points:      200,
		Rarity:      models.RarityRare,
		Category:    models.AchievementSpecial,
	},
}

// categoryKeywords ищутся в названиях привычек без учёта регистра.
var categoryKeywords = map[string][]string{
	"health":       {"exercise", "water", "sleep", "fitness"},
	"productivity": {"work", "study", "read", "plan"},
}

// Catalog возвращает копию предопределённых достижений в порядке показа.
func Catalog() []models.Achievement {
	out := make([]models.Achievement, len(predefinedAchievements))
	copy(out, predefinedAchievements)
	return out
}

func AchievementByID(id string) (models.Achievement, bool) {
	for _, a := range predefinedAchievements {
		if a.ID == id {
			return a, true
		}
	}
	return models.Achievement{}, false
}
