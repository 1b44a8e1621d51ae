package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const inviteCodeLength = 8

type householdService struct {
	householdRepo repository.HouseholdRepository
	userRepo      repository.UserRepository
}

// NewHouseholdService creates a new household service
func NewHouseholdService(householdRepo repository.HouseholdRepository, userRepo repository.UserRepository) HouseholdService {
	return &householdService{householdRepo: householdRepo, userRepo: userRepo}
}

func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}

func (s *householdService) Get(ctx context.Context, userID uuid.UUID) (*models.Household, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HouseholdID == nil {
		return nil, ErrNoHousehold
	}

	household, err := s.householdRepo.GetByID(ctx, *user.HouseholdID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoHousehold
		}
		return nil, err
	}

	members, err := s.userRepo.ListByHousehold(ctx, household.ID)
	if err != nil {
		return nil, err
	}
	household.Members = members
	return household, nil
}

func (s *householdService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateHouseholdRequest) (*models.Household, error) {
	if req.Name == "" || len(req.Name) > 60 {
		return nil, NewValidationError("name", "must be 1-60 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HouseholdID != nil {
		return nil, ErrAlreadyInHousehold
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}
	household := &models.Household{Name: req.Name, InviteCode: code}
	if err := s.householdRepo.Create(ctx, household); err != nil {
		return nil, fmt.Errorf("creating household: %w", err)
	}

	if err := s.userRepo.SetHousehold(ctx, userID, &household.ID); err != nil {
		return nil, fmt.Errorf("joining new household: %w", err)
	}
	household.Members = []models.User{*user}
	return household, nil
}

func (s *householdService) Join(ctx context.Context, userID uuid.UUID, req *models.JoinHouseholdRequest) (*models.Household, error) {
	if req.InviteCode == "" {
		return nil, NewValidationError("inviteCode", "is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HouseholdID != nil {
		return nil, ErrAlreadyInHousehold
	}

	household, err := s.householdRepo.GetByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.userRepo.SetHousehold(ctx, userID, &household.ID); err != nil {
		return nil, fmt.Errorf("joining household: %w", err)
	}

	members, err := s.userRepo.ListByHousehold(ctx, household.ID)
	if err != nil {
		return nil, err
	}
	household.Members = members
	return household, nil
}

func (s *householdService) AddMember(ctx context.Context, callerID uuid.UUID, req *models.AddMemberRequest) (*models.User, error) {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.HouseholdID == nil {
		return nil, ErrNoHousehold
	}

	member, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if member.HouseholdID != nil {
		return nil, ErrAlreadyInHousehold
	}

	if err := s.userRepo.SetHousehold(ctx, member.ID, caller.HouseholdID); err != nil {
		return nil, fmt.Errorf("adding member: %w", err)
	}
	member.HouseholdID = caller.HouseholdID
	return member, nil
}

func (s *householdService) RemoveMember(ctx context.Context, callerID, memberID uuid.UUID) error {
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.HouseholdID == nil {
		return ErrNoHousehold
	}

	member, err := s.userRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Members may remove themselves; anyone in the household may remove
	// anyone else. Household admin roles never shipped.
	if member.HouseholdID == nil || *member.HouseholdID != *caller.HouseholdID {
		return ErrNotFound
	}

	return s.userRepo.SetHousehold(ctx, memberID, nil)
}
