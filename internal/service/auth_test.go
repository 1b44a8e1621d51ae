package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaember/habitsv2/internal/models"
)

const testSecret = "test-secret-do-not-use"

func TestRegisterAndLogin(t *testing.T) {
	users := newMockUserRepository()
	svc := NewAuthService(users, testSecret, time.Hour)
	ctx := context.Background()

	req := &models.RegisterRequest{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "correct horse",
	}

	resp, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, DefaultTimezone, resp.User.Timezone)
	assert.Equal(t, DefaultWeekStart, resp.User.WeekStart)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login with right password", func(t *testing.T) {
		got, err := svc.Login(ctx, &models.LoginRequest{Email: req.Email, Password: req.Password})
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, got.UserID)
		assert.NotEmpty(t, got.Token)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: req.Email, Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Email: "bob@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegisterValidation(t *testing.T) {
	users := newMockUserRepository()
	svc := NewAuthService(users, testSecret, time.Hour)
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"bad email", models.RegisterRequest{Email: "nope", Name: "A", Password: "long enough"}},
		{"empty name", models.RegisterRequest{Email: "a@b.com", Name: "", Password: "long enough"}},
		{"short password", models.RegisterRequest{Email: "a@b.com", Name: "A", Password: "short"}},
		{"bad timezone", models.RegisterRequest{Email: "a@b.com", Name: "A", Password: "long enough", Timezone: "Mars/Olympus"}},
		{"bad week start", models.RegisterRequest{Email: "a@b.com", Name: "A", Password: "long enough", WeekStart: "TUE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tc.req)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	users := newMockUserRepository()
	svc := NewAuthService(users, testSecret, time.Hour)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Email: "alice@example.com", Name: "Alice", Password: "correct horse",
	})
	require.NoError(t, err)

	t.Run("valid token parses to the subject", func(t *testing.T) {
		userID, err := svc.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, userID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token signed with a different secret rejected", func(t *testing.T) {
		other := NewAuthService(users, "other-secret", time.Hour)
		forged, err := other.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
		require.NoError(t, err)
		_, err = svc.ParseToken(forged.Token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := NewAuthService(users, testSecret, time.Nanosecond)
		resp, err := expired.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
		_, err = svc.ParseToken(resp.Token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
