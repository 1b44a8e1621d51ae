package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/period"
	"github.com/metaember/habitsv2/internal/repository"
	"github.com/metaember/habitsv2/internal/stats"
)

type calendarService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	habits    HabitService
}

// NewCalendarService creates a new calendar service
func NewCalendarService(eventRepo repository.EventRepository, userRepo repository.UserRepository, habits HabitService) CalendarService {
	return &calendarService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		habits:    habits,
	}
}

func (s *calendarService) Month(ctx context.Context, viewerID, habitID uuid.UUID, month, tz, weekStart string) (*models.CalendarMonth, error) {
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

	firstDay, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return nil, NewValidationError("month", "must be YYYY-MM")
	}
	monthStart := firstDay
	monthEnd := monthStart.AddDate(0, 1, 0)

	from := monthStart.UTC()
	to := monthEnd.UTC()
	events, err := s.eventRepo.ListByHabit(ctx, habitID, &from, &to)
	if err != nil {
		return nil, err
	}
	effective := stats.FilterEffective(events)
	buckets := period.Bucketize(effective, models.PeriodDay, ws, loc)

	totals := make(map[string]float64, len(buckets))
	for _, b := range buckets {
		totals[b.Start.In(loc).Format("2006-01-02")] = b.Total
	}

	out := &models.CalendarMonth{
		Month:   month,
		HabitID: habit.ID,
		Days:    make([]models.CalendarDay, 0, 31),
	}
	for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		total := totals[date]
		progress := 0.0
		if habit.Target > 0 {
			progress = total / habit.Target
		}
		success := false
		switch habit.Type {
		case models.HabitTypeBuild:
			success = total >= habit.Target
		case models.HabitTypeBreak:
			// A clean day for a break habit is a day without incidents
			success = total == 0
		}
		intensity := progress
		if intensity > 1 {
			intensity = 1
		}
		out.Days = append(out.Days, models.CalendarDay{
			Date:      date,
			Total:     total,
			Progress:  progress,
			Success:   success,
			Intensity: intensity,
		})
	}
	return out, nil
}
