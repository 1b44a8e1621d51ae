package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
	"github.com/metaember/habitsv2/internal/stats"
)

type statsService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	habits    HabitService
	now       func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(eventRepo repository.EventRepository, userRepo repository.UserRepository, habits HabitService) StatsService {
	return &statsService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		habits:    habits,
		now:       time.Now,
	}
}

// resolveView turns optional tz/weekStart query overrides plus the viewer's
// profile into the concrete values the core requires.
func resolveView(viewer *models.User, tz, weekStart string) (*time.Location, models.WeekStart, error) {
	tzName := tz
	if tzName == "" {
		tzName = viewer.Timezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, "", NewValidationError("tz", "unknown IANA timezone")
	}

	ws := viewer.WeekStart
	if weekStart != "" {
		ws = models.WeekStart(weekStart)
		if !ws.Valid() {
			return nil, "", NewValidationError("week_start", "must be MON or SUN")
		}
	}
	if !ws.Valid() {
		ws = models.WeekStartMonday
	}
	return loc, ws, nil
}

func (s *statsService) ForHabit(ctx context.Context, viewerID, habitID uuid.UUID, tz, weekStart string) (*models.HabitStats, error) {
	habit, err := s.habits.Get(ctx, viewerID, habitID)
	if err != nil {
		return nil, err
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	loc, ws, err := resolveView(viewer, tz, weekStart)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByHabit(ctx, habitID, nil, nil)
	if err != nil {
		return nil, err
	}

	result := stats.ForHabit(*habit, events, s.now(), ws, loc)
	return &result, nil
}
