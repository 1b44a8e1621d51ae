package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
)

type habitService struct {
	habitRepo repository.HabitRepository
	userRepo  repository.UserRepository
}

// NewHabitService creates a new habit service
func NewHabitService(habitRepo repository.HabitRepository, userRepo repository.UserRepository) HabitService {
	return &habitService{habitRepo: habitRepo, userRepo: userRepo}
}

func validHabitType(t string) bool {
	return t == string(models.HabitTypeBuild) || t == string(models.HabitTypeBreak)
}

func validPeriod(p string) bool {
	switch models.Period(p) {
	case models.PeriodDay, models.PeriodWeek, models.PeriodMonth, models.PeriodCustom:
		return true
	}
	return false
}

func validUnit(u string) bool {
	switch models.Unit(u) {
	case models.UnitCount, models.UnitMinutes, models.UnitCustom:
		return true
	}
	return false
}

func validVisibility(v string) bool {
	switch models.Visibility(v) {
	case models.VisibilityPrivate, models.VisibilityHousehold,
		models.VisibilityGroup, models.VisibilityPublicLink:
		return true
	}
	return false
}

func (s *habitService) Create(ctx context.Context, ownerID uuid.UUID, req *models.CreateHabitRequest) (*models.Habit, error) {
	if req.Name == "" || len(req.Name) > 60 {
		return nil, NewValidationError("name", "must be 1-60 characters")
	}
	if !validHabitType(req.Type) {
		return nil, NewValidationError("type", "must be build or break")
	}
	if req.Target <= 0 {
		return nil, NewValidationError("target", "must be greater than zero")
	}

	period := req.Period
	if period == "" {
		period = string(models.PeriodDay)
	} else if !validPeriod(period) {
		return nil, NewValidationError("period", "must be day, week, month or custom")
	}

	unit := req.Unit
	if unit == "" {
		unit = string(models.UnitCount)
	} else if !validUnit(unit) {
		return nil, NewValidationError("unit", "must be count, minutes or custom")
	}
	if req.UnitLabel != nil && (len(*req.UnitLabel) == 0 || len(*req.UnitLabel) > 12) {
		return nil, NewValidationError("unitLabel", "must be 1-12 characters")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = string(models.VisibilityPrivate)
	} else if !validVisibility(visibility) {
		return nil, NewValidationError("visibility", "unknown visibility")
	}

	if req.ScheduleDowMask != nil && (*req.ScheduleDowMask < 0 || *req.ScheduleDowMask > 127) {
		return nil, NewValidationError("scheduleDowMask", "must be between 0 and 127")
	}

	habit := &models.Habit{
		OwnerUserID:     ownerID,
		Name:            req.Name,
		Emoji:           req.Emoji,
		Type:            models.HabitType(req.Type),
		Target:          req.Target,
		Period:          models.Period(period),
		Unit:            models.Unit(unit),
		UnitLabel:       req.UnitLabel,
		Active:          true,
		Visibility:      models.Visibility(visibility),
		TemplateKey:     req.TemplateKey,
		ScheduleDowMask: req.ScheduleDowMask,
	}
	if err := s.habitRepo.Create(ctx, habit); err != nil {
		if errors.Is(err, repository.ErrCheckViolation) {
			return nil, NewValidationError("habit", "rejected by a storage constraint")
		}
		return nil, fmt.Errorf("creating habit: %w", err)
	}
	return habit, nil
}

func (s *habitService) Get(ctx context.Context, viewerID, habitID uuid.UUID) (*models.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	visible, err := s.visibleTo(ctx, viewerID, habit)
	if err != nil {
		return nil, err
	}
	if !visible {
		// Invisible habits read as absent, not forbidden
		return nil, ErrNotFound
	}
	return habit, nil
}

func (s *habitService) List(ctx context.Context, viewerID uuid.UUID) ([]models.Habit, error) {
	habits, err := s.habitRepo.ListByOwner(ctx, viewerID, true)
	if err != nil {
		return nil, err
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer.HouseholdID != nil {
		shared, err := s.habitRepo.ListHouseholdVisible(ctx, *viewer.HouseholdID, viewerID)
		if err != nil {
			return nil, err
		}
		habits = append(habits, shared...)
	}
	return habits, nil
}

func (s *habitService) Update(ctx context.Context, viewerID, habitID uuid.UUID, req *models.UpdateHabitRequest) (*models.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Only the owner can modify a habit, shared or not
	if habit.OwnerUserID != viewerID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		if *req.Name == "" || len(*req.Name) > 60 {
			return nil, NewValidationError("name", "must be 1-60 characters")
		}
		habit.Name = *req.Name
	}
	if req.Emoji != nil {
		habit.Emoji = req.Emoji
	}
	if req.Target != nil {
		if *req.Target <= 0 {
			return nil, NewValidationError("target", "must be greater than zero")
		}
		habit.Target = *req.Target
	}
	if req.Period != nil {
		if !validPeriod(*req.Period) {
			return nil, NewValidationError("period", "must be day, week, month or custom")
		}
		habit.Period = models.Period(*req.Period)
	}
	if req.Unit != nil {
		if !validUnit(*req.Unit) {
			return nil, NewValidationError("unit", "must be count, minutes or custom")
		}
		habit.Unit = models.Unit(*req.Unit)
	}
	if req.UnitLabel != nil {
		if len(*req.UnitLabel) == 0 || len(*req.UnitLabel) > 12 {
			return nil, NewValidationError("unitLabel", "must be 1-12 characters")
		}
		habit.UnitLabel = req.UnitLabel
	}
	if req.Active != nil {
		habit.Active = *req.Active
	}
	if req.Visibility != nil {
		if !validVisibility(*req.Visibility) {
			return nil, NewValidationError("visibility", "unknown visibility")
		}
		habit.Visibility = models.Visibility(*req.Visibility)
	}

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		if errors.Is(err, repository.ErrCheckViolation) {
			return nil, NewValidationError("habit", "rejected by a storage constraint")
		}
		return nil, fmt.Errorf("updating habit: %w", err)
	}
	return habit, nil
}

// visibleTo implements the sharing rule: owners always see their habits;
// household members see habits with household visibility when they share a
// household with the owner.
func (s *habitService) visibleTo(ctx context.Context, viewerID uuid.UUID, habit *models.Habit) (bool, error) {
	if habit.OwnerUserID == viewerID {
		return true, nil
	}
	if habit.Visibility != models.VisibilityHousehold {
		return false, nil
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return false, err
	}
	if viewer.HouseholdID == nil {
		return false, nil
	}
	owner, err := s.userRepo.GetByID(ctx, habit.OwnerUserID)
	if err != nil {
		return false, err
	}
	return owner.HouseholdID != nil && *owner.HouseholdID == *viewer.HouseholdID, nil
}
