package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
)

// ClockSkewTolerance is how far in the future a client timestamp may sit
// before it is rejected. Device clocks drift; five minutes absorbs that.
const ClockSkewTolerance = 5 * time.Minute

type eventService struct {
	eventRepo repository.EventRepository
	habits    HabitService
	now       func() time.Time
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository, habits HabitService) EventService {
	return &eventService{
		eventRepo: eventRepo,
		habits:    habits,
		now:       time.Now,
	}
}

func (s *eventService) Log(ctx context.Context, userID, habitID uuid.UUID, req *models.CreateEventRequest) (*models.Event, bool, error) {
	// Visibility doubles as the authorization check: members may log
	// against shared household habits.
	if _, err := s.habits.Get(ctx, userID, habitID); err != nil {
		return nil, false, err
	}

	value := 1.0
	if req.Value != nil {
		if *req.Value <= 0 {
			return nil, false, NewValidationError("value", "must be greater than zero")
		}
		value = *req.Value
	}
	if req.Note != nil && len(*req.Note) > 280 {
		return nil, false, NewValidationError("note", "must be at most 280 characters")
	}
	if req.ClientID != nil && (len(*req.ClientID) == 0 || len(*req.ClientID) > 64) {
		return nil, false, NewValidationError("clientId", "must be 1-64 characters")
	}

	now := s.now()
	tsClient := now
	if req.TsClient != nil {
		parsed, err := time.Parse(time.RFC3339, *req.TsClient)
		if err != nil {
			return nil, false, NewValidationError("tsClient", "must be an RFC3339 timestamp")
		}
		tsClient = parsed
	}
	if tsClient.After(now.Add(ClockSkewTolerance)) {
		return nil, false, ErrFutureTimestamp
	}

	// Quick-log idempotency: the same clientId returns the original event
	if req.ClientID != nil {
		existing, err := s.eventRepo.GetByClientID(ctx, habitID, *req.ClientID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, false, err
		}
	}

	event := &models.Event{
		HabitID:  habitID,
		UserID:   userID,
		Value:    value,
		Note:     req.Note,
		TsClient: tsClient.UTC(),
		Source:   models.SourceUI,
		ClientID: req.ClientID,
	}
	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		// Lost the race against a concurrent log with the same clientId
		if errors.Is(err, repository.ErrDuplicateClientID) && req.ClientID != nil {
			existing, lookupErr := s.eventRepo.GetByClientID(ctx, habitID, *req.ClientID)
			if lookupErr == nil {
				return existing, false, nil
			}
		}
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("creating event: %w", err)
	}
	return created, true, nil
}

func (s *eventService) List(ctx context.Context, viewerID, habitID uuid.UUID, from, to *time.Time) ([]models.Event, error) {
	if _, err := s.habits.Get(ctx, viewerID, habitID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByHabit(ctx, habitID, from, to)
}

func (s *eventService) Void(ctx context.Context, userID, eventID uuid.UUID, req *models.VoidEventRequest) (*models.Event, error) {
	target, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if target.IsVoid() {
		return nil, NewValidationError("eventId", "void events cannot be voided")
	}

	habit, err := s.habits.Get(ctx, userID, target.HabitID)
	if err != nil {
		return nil, err
	}
	// Voiding is restricted to whoever logged the event or the habit owner
	if target.UserID != userID && habit.OwnerUserID != userID {
		return nil, ErrForbidden
	}

	if existing, err := s.eventRepo.GetVoidOf(ctx, target.HabitID, target.ID.String()); err == nil {
		return nil, &AlreadyVoidedError{ExistingID: existing.ID}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	clientID := "void_" + target.ID.String()
	void := &models.Event{
		HabitID:  target.HabitID,
		UserID:   userID,
		Value:    0,
		TsClient: target.TsClient,
		Source:   models.SourceUI,
		ClientID: &clientID,
		Meta:     models.NewVoidMeta(target.ID.String(), models.VoidReason(req.Reason)),
	}
	created, err := s.eventRepo.Create(ctx, void)
	if err != nil {
		// Lost the at-most-one-void race; surface the winner
		if errors.Is(err, repository.ErrDuplicateClientID) {
			if existing, lookupErr := s.eventRepo.GetVoidOf(ctx, target.HabitID, target.ID.String()); lookupErr == nil {
				return nil, &AlreadyVoidedError{ExistingID: existing.ID}
			}
		}
		return nil, fmt.Errorf("creating void event: %w", err)
	}
	return created, nil
}
