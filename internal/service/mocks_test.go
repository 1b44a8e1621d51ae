package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
)

// In-memory repository mocks backing the service tests.

type mockUserRepository struct {
	users map[uuid.UUID]*models.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) SetHousehold(ctx context.Context, userID uuid.UUID, householdID *uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.HouseholdID = householdID
	return nil
}

func (m *mockUserRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]models.User, error) {
	out := make([]models.User, 0)
	for _, u := range m.users {
		if u.HouseholdID != nil && *u.HouseholdID == householdID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type mockHouseholdRepository struct {
	households map[uuid.UUID]*models.Household
}

func newMockHouseholdRepository() *mockHouseholdRepository {
	return &mockHouseholdRepository{households: make(map[uuid.UUID]*models.Household)}
}

func (m *mockHouseholdRepository) Create(ctx context.Context, household *models.Household) error {
	household.ID = uuid.New()
	household.CreatedAt = time.Now()
	cp := *household
	m.households[household.ID] = &cp
	return nil
}

func (m *mockHouseholdRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Household, error) {
	if h, ok := m.households[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockHouseholdRepository) GetByInviteCode(ctx context.Context, code string) (*models.Household, error) {
	for _, h := range m.households {
		if h.InviteCode == code {
			cp := *h
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type mockHabitRepository struct {
	habits map[uuid.UUID]*models.Habit
	users  *mockUserRepository
}

func newMockHabitRepository(users *mockUserRepository) *mockHabitRepository {
	return &mockHabitRepository{habits: make(map[uuid.UUID]*models.Habit), users: users}
}

func (m *mockHabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()
	cp := *habit
	m.habits[habit.ID] = &cp
	return nil
}

func (m *mockHabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	if h, ok := m.habits[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockHabitRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, includeInactive bool) ([]models.Habit, error) {
	out := make([]models.Habit, 0)
	for _, h := range m.habits {
		if h.OwnerUserID == ownerID && (includeInactive || h.Active) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockHabitRepository) ListHouseholdVisible(ctx context.Context, householdID, excludeUserID uuid.UUID) ([]models.Habit, error) {
	out := make([]models.Habit, 0)
	for _, h := range m.habits {
		if h.OwnerUserID == excludeUserID || !h.Active || h.Visibility != models.VisibilityHousehold {
			continue
		}
		owner, ok := m.users.users[h.OwnerUserID]
		if ok && owner.HouseholdID != nil && *owner.HouseholdID == householdID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockHabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	if _, ok := m.habits[habit.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *habit
	m.habits[habit.ID] = &cp
	return nil
}

func (m *mockHabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.habits[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.habits, id)
	return nil
}

type mockEventRepository struct {
	events map[uuid.UUID]*models.Event
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: make(map[uuid.UUID]*models.Event)}
}

func (m *mockEventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.ClientID != nil {
		for _, e := range m.events {
			if e.HabitID == event.HabitID && e.ClientID != nil && *e.ClientID == *event.ClientID {
				return nil, repository.ErrDuplicateClientID
			}
		}
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.TsServer.IsZero() {
		event.TsServer = time.Now().UTC()
	}
	cp := *event
	m.events[event.ID] = &cp
	return &cp, nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockEventRepository) GetByClientID(ctx context.Context, habitID uuid.UUID, clientID string) (*models.Event, error) {
	for _, e := range m.events {
		if e.HabitID == habitID && e.ClientID != nil && *e.ClientID == clientID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockEventRepository) ListByHabit(ctx context.Context, habitID uuid.UUID, from, to *time.Time) ([]models.Event, error) {
	out := make([]models.Event, 0)
	for _, e := range m.events {
		if e.HabitID != habitID {
			continue
		}
		if from != nil && e.TsClient.Before(*from) {
			continue
		}
		if to != nil && !e.TsClient.Before(*to) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockEventRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	out := make([]models.Event, 0)
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEventRepository) GetVoidOf(ctx context.Context, habitID uuid.UUID, targetID string) (*models.Event, error) {
	for _, e := range m.events {
		if e.HabitID == habitID && e.VoidTarget() == targetID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockEventRepository) ExistsDuplicate(ctx context.Context, event *models.Event) (bool, error) {
	for _, e := range m.events {
		if e.HabitID != event.HabitID || !e.TsClient.Equal(event.TsClient) || e.Value != event.Value {
			continue
		}
		if (e.ClientID == nil) != (event.ClientID == nil) {
			continue
		}
		if e.ClientID != nil && *e.ClientID != *event.ClientID {
			continue
		}
		return true, nil
	}
	return false, nil
}
