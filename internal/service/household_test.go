package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaember/habitsv2/internal/models"
)

func newHouseholdTestEnv(t *testing.T) (*mockUserRepository, *mockHouseholdRepository, HouseholdService, *models.User) {
	t.Helper()
	users := newMockUserRepository()
	households := newMockHouseholdRepository()
	svc := NewHouseholdService(households, users)

	creator := &models.User{
		Email:     "creator@example.com",
		Name:      "Creator",
		Timezone:  "America/New_York",
		WeekStart: models.WeekStartMonday,
	}
	require.NoError(t, users.Create(context.Background(), creator))
	return users, households, svc, creator
}

func TestCreateHousehold(t *testing.T) {
	users, _, svc, creator := newHouseholdTestEnv(t)
	ctx := context.Background()

	household, err := svc.Create(ctx, creator.ID, &models.CreateHouseholdRequest{Name: "Smith Family"})
	require.NoError(t, err)
	assert.Equal(t, "Smith Family", household.Name)
	assert.Len(t, household.InviteCode, inviteCodeLength)
	require.Len(t, household.Members, 1)
	assert.Equal(t, creator.ID, household.Members[0].ID)

	// Creator is linked to the new household
	reloaded, err := users.GetByID(ctx, creator.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.HouseholdID)
	assert.Equal(t, household.ID, *reloaded.HouseholdID)

	// A user cannot create a second household
	_, err = svc.Create(ctx, creator.ID, &models.CreateHouseholdRequest{Name: "Another"})
	assert.ErrorIs(t, err, ErrAlreadyInHousehold)
}

func TestCreateHouseholdValidation(t *testing.T) {
	_, _, svc, creator := newHouseholdTestEnv(t)

	_, err := svc.Create(context.Background(), creator.ID, &models.CreateHouseholdRequest{Name: ""})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
}

func TestGetHouseholdRequiresMembership(t *testing.T) {
	_, _, svc, creator := newHouseholdTestEnv(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, creator.ID)
	assert.ErrorIs(t, err, ErrNoHousehold)

	created, err := svc.Create(ctx, creator.ID, &models.CreateHouseholdRequest{Name: "Smith Family"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Members, 1)
}

func TestJoinHouseholdByInviteCode(t *testing.T) {
	users, _, svc, creator := newHouseholdTestEnv(t)
	ctx := context.Background()

	household, err := svc.Create(ctx, creator.ID, &models.CreateHouseholdRequest{Name: "Smith Family"})
	require.NoError(t, err)

	joiner := &models.User{Email: "joiner@example.com", Name: "Joiner"}
	require.NoError(t, users.Create(ctx, joiner))

	joined, err := svc.Join(ctx, joiner.ID, &models.JoinHouseholdRequest{InviteCode: household.InviteCode})
	require.NoError(t, err)
	assert.Equal(t, household.ID, joined.ID)
	assert.Len(t, joined.Members, 2)

	t.Run("unknown code", func(t *testing.T) {
		loner := &models.User{Email: "loner@example.com", Name: "Loner"}
		require.NoError(t, users.Create(ctx, loner))
		_, err := svc.Join(ctx, loner.ID, &models.JoinHouseholdRequest{InviteCode: "NOPE1234"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing code", func(t *testing.T) {
		loner2 := &models.User{Email: "loner2@example.com", Name: "Loner Two"}
		require.NoError(t, users.Create(ctx, loner2))
		_, err := svc.Join(ctx, loner2.ID, &models.JoinHouseholdRequest{})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "inviteCode", verr.Field)
	})

	t.Run("already in a household", func(t *testing.T) {
		_, err := svc.Join(ctx, joiner.ID, &models.JoinHouseholdRequest{InviteCode: household.InviteCode})
		assert.ErrorIs(t, err, ErrAlreadyInHousehold)
	})
}

func TestAddMember(t *testing.T) {
	users, _, svc, creator := newHouseholdTestEnv(t)
	ctx := context.Background()

	household, err := svc.Create(ctx, creator.ID, &models.CreateHouseholdRequest{Name: "Smith Family"})
	require.NoError(t, err)

	joiner := &models.User{Email: "joiner@example.com", Name: "Joiner"}
	require.NoError(t, users.Create(ctx, joiner))

	member, err := svc.AddMember(ctx, creator.ID, &models.AddMemberRequest{Email: "joiner@example.com"})
	require.NoError(t, err)
	require.NotNil(t, member.HouseholdID)
	assert.Equal(t, household.ID, *member.HouseholdID)

	got, err := svc.Get(ctx, creator.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 2)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.AddMember(ctx, creator.ID, &models.AddMemberRequest{Email: "nobody@example.com"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already in a household", func(t *testing.T) {
		_, err := svc.AddMember(ctx, creator.ID, &models.AddMemberRequest{Email: "joiner@example.com"})
		assert.ErrorIs(t, err, ErrAlreadyInHousehold)
	})

	t.Run("caller without household", func(t *testing.T) {
		loner := &models.User{Email: "loner@example.com", Name: "Loner"}
		require.NoError(t, users.Create(ctx, loner))
		_, err := svc.AddMember(ctx, loner.ID, &models.AddMemberRequest{Email: "creator@example.com"})
		assert.ErrorIs(t, err, ErrNoHousehold)
	})
}

func TestRemoveMember(t *testing.T) {
	users, _, svc, creator := newHouseholdTestEnv(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, creator.ID, &models.CreateHouseholdRequest{Name: "Smith Family"})
	require.NoError(t, err)

	joiner := &models.User{Email: "joiner@example.com", Name: "Joiner"}
	require.NoError(t, users.Create(ctx, joiner))
	_, err = svc.AddMember(ctx, creator.ID, &models.AddMemberRequest{Email: "joiner@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(ctx, creator.ID, joiner.ID))

	reloaded, err := users.GetByID(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.HouseholdID)

	t.Run("member of another household is invisible", func(t *testing.T) {
		other := &models.User{Email: "other@example.com", Name: "Other"}
		require.NoError(t, users.Create(ctx, other))
		_, err := svc.Create(ctx, other.ID, &models.CreateHouseholdRequest{Name: "Other Family"})
		require.NoError(t, err)

		err = svc.RemoveMember(ctx, creator.ID, other.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("members may remove themselves", func(t *testing.T) {
		_, err := svc.AddMember(ctx, creator.ID, &models.AddMemberRequest{Email: "joiner@example.com"})
		require.NoError(t, err)
		require.NoError(t, svc.RemoveMember(ctx, joiner.ID, joiner.ID))
	})
}
