package services

import (
	"context"

	"github.com/IWTDPLZZZ/Habit-Tracker/models"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CompletionPoints = 10
	PointsPerLevel   = 1000

	defaultProfileID   = "1"
	defaultProfileName = "Пользователь"
)

// LevelFor переводит сумму очков в уровень.
func LevelFor(points int) int {
	return points/PointsPerLevel + 1
}

type LevelInfo struct {
	CurrentLevel int     `json:"currentLevel"`
	NextLevel    int     `json:"nextLevel"`
	PointsToNext int     `json:"pointsToNext"`
	Progress     float64 `json:"progress"`
}

// ProfileService ведёт единственный профиль пользователя.
type ProfileService struct {
	docs documents
	now  Clock
}

func NewProfileService(store storage.Store, logger *zap.Logger, now Clock) *ProfileService {
	return &ProfileService{
		docs: documents{store: store, logger: logger.With(zap.String("service", "profile"))},
		now:  now,
	}
}

func newDefaultProfile() *models.UserProfile {
	return &models.UserProfile{
		ID:           defaultProfileID,
		Name:         defaultProfileName,
		Level:        1,
		Achievements: []models.UserAchievement{},
	}
}

// Profile возвращает сохранённый профиль. При первом обращении или если
// сохранённый не читается, создаёт и сохраняет профиль по умолчанию.
func (s *ProfileService) Profile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	ok, err := s.docs.loadDoc(ctx, storage.KeyUserProfile, &p)
	if err != nil {
		return nil, err
	}
	if ok {
		if p.Achievements == nil {
			p.Achievements = []models.UserAchievement{}
		}
		return &p, nil
	}

	fresh := newDefaultProfile()
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *ProfileService) Save(ctx context.Context, p *models.UserProfile) error {
	return s.docs.save(ctx, storage.KeyUserProfile, p)
}

// raiseLevel никогда не понижает сохранённый уровень.
func raiseLevel(p *models.UserProfile) {
	if lvl := LevelFor(p.Points); lvl > p.Level {
		p.Level = lvl
	}
}

// AwardCompletionPoints начисляет фиксированные очки за выполнение и считает его.
func (s *ProfileService) AwardCompletionPoints(ctx context.Context) (*models.UserProfile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	p.Points += CompletionPoints
	p.TotalHabitsCompleted++
	raiseLevel(p)

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	utils.PointsAwarded.WithLabelValues("completion").Add(CompletionPoints)
	return p, nil
}

// AwardAchievement записывает полученное достижение и начисляет награду.
// Дубликаты не проверяются: сюда попадают только результаты
// AchievementService.CheckAchievementConditions.
func (s *ProfileService) AwardAchievement(ctx context.Context, a models.Achievement) (*models.UserAchievement, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	ua := models.UserAchievement{
		ID:            uuid.NewString(),
		AchievementID: a.ID,
		UserID:        p.ID,
		EarnedAt:      s.now(),
	}
	p.Achievements = append(p.Achievements, ua)
	p.Points += a.Points
	raiseLevel(p)

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}

	utils.PointsAwarded.WithLabelValues("achievement").Add(float64(a.Points))
	utils.AchievementsEarned.WithLabelValues(a.ID).Inc()
	s.docs.logger.Info("achievement_earned",
		zap.String("achievement_id", a.ID),
		zap.Int("points", a.Points),
		zap.Int("total_points", p.Points),
	)
	return &ua, nil
}

// RecordStreak сохраняет серию только что выполненной привычки как текущую
// серию профиля и обновляет рекорд, если он превышен.
func (s *ProfileService) RecordStreak(ctx context.Context, streak int) (*models.UserProfile, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	p.CurrentStreak = streak
	if streak > p.LongestStreak {
		p.LongestStreak = streak
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) UserAchievements(ctx context.Context) ([]models.UserAchievement, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return p.Achievements, nil
}

func (s *ProfileService) IsAchievementEarned(ctx context.Context, achievementID string) (bool, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return false, err
	}
	return p.HasAchievement(achievementID), nil
}

func (s *ProfileService) NextLevelInfo(ctx context.Context) (LevelInfo, error) {
	p, err := s.Profile(ctx)
	if err != nil {
		return LevelInfo{}, err
	}
	return levelInfo(p), nil
}

func levelInfo(p *models.UserProfile) LevelInfo {
	inLevel := p.Points % PointsPerLevel
	return LevelInfo{
		CurrentLevel: p.Level,
		NextLevel:    p.Level + 1,
		PointsToNext: PointsPerLevel - inLevel,
		Progress:     float64(inLevel) / PointsPerLevel * 100,
	}
}
