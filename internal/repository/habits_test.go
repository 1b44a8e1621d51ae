package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/repository"
)

var ownerID = uuid.New()

func newHabit() *models.Habit {
	return &models.Habit{
		OwnerUserID: ownerID,
		Name:        "Read",
		Type:        models.HabitTypeBuild,
		Target:      1,
		Period:      models.PeriodDay,
		Unit:        models.UnitCount,
		Active:      true,
		Visibility:  models.VisibilityPrivate,
	}
}

func habitRow(h *models.Habit) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "owner_user_id", "name", "emoji", "type", "target", "period", "unit",
		"unit_label", "active", "visibility", "template_key", "schedule_dow_mask",
		"created_at", "updated_at",
	}).AddRow(h.ID, h.OwnerUserID, h.Name, h.Emoji, h.Type, h.Target, h.Period, h.Unit,
		h.UnitLabel, h.Active, h.Visibility, h.TemplateKey, h.ScheduleDowMask,
		h.CreatedAt, h.UpdatedAt)
}

func TestCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitRepository(mock)
	habit := newHabit()
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO habits`)

	t.Run("successfully created", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(query).
			WithArgs(habit.OwnerUserID, habit.Name, habit.Emoji, habit.Type, habit.Target,
				habit.Period, habit.Unit, habit.UnitLabel, habit.Active, habit.Visibility,
				habit.TemplateKey, habit.ScheduleDowMask).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(id, time.Now(), time.Now()))
		err := repo.Create(ctx, habit)
		assert.NoError(t, err)
		assert.Equal(t, id, habit.ID)
	})

	t.Run("check violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.OwnerUserID, habit.Name, habit.Emoji, habit.Type, habit.Target,
				habit.Period, habit.Unit, habit.UnitLabel, habit.Active, habit.Visibility,
				habit.TemplateKey, habit.ScheduleDowMask).
			WillReturnError(&pgconn.PgError{Code: "23514"})
		err := repo.Create(ctx, habit)
		assert.ErrorIs(t, err, repository.ErrCheckViolation)
	})

	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.OwnerUserID, habit.Name, habit.Emoji, habit.Type, habit.Target,
				habit.Period, habit.Unit, habit.UnitLabel, habit.Active, habit.Visibility,
				habit.TemplateKey, habit.ScheduleDowMask).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		err := repo.Create(ctx, habit)
		assert.ErrorIs(t, err, repository.ErrForeignKey)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(habit.OwnerUserID, habit.Name, habit.Emoji, habit.Type, habit.Target,
				habit.Period, habit.Unit, habit.UnitLabel, habit.Active, habit.Visibility,
				habit.TemplateKey, habit.ScheduleDowMask).
			WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, habit)
		assert.Error(t, err)
	})
}

func TestGetHabitByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitRepository(mock)
	habit := newHabit()
	habit.ID = uuid.New()
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()
	ctx := context.Background()
	query := regexp.QuoteMeta(`FROM habits WHERE id = $1`)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(habit.ID).WillReturnRows(habitRow(habit))
		got, err := repo.GetByID(ctx, habit.ID)
		assert.NoError(t, err)
		assert.Equal(t, habit.Name, got.Name)
		assert.Equal(t, habit.OwnerUserID, got.OwnerUserID)
	})

	t.Run("not found", func(t *testing.T) {
		missing := uuid.New()
		mock.ExpectQuery(query).WithArgs(missing).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, missing)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitRepository(mock)
	ctx := context.Background()

	habit := newHabit()
	habit.ID = uuid.New()

	t.Run("active only", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`AND active`)).
			WithArgs(ownerID).
			WillReturnRows(habitRow(habit))
		habits, err := repo.ListByOwner(ctx, ownerID, false)
		assert.NoError(t, err)
		assert.Len(t, habits, 1)
	})

	t.Run("empty result is empty slice", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM habits WHERE owner_user_id = $1`)).
			WithArgs(ownerID).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "owner_user_id", "name", "emoji", "type", "target", "period", "unit",
				"unit_label", "active", "visibility", "template_key", "schedule_dow_mask",
				"created_at", "updated_at",
			}))
		habits, err := repo.ListByOwner(ctx, ownerID, true)
		assert.NoError(t, err)
		assert.NotNil(t, habits)
		assert.Empty(t, habits)
	})
}

func TestUpdateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewHabitRepository(mock)
	habit := newHabit()
	habit.ID = uuid.New()
	ctx := context.Background()
	query := regexp.QuoteMeta(`UPDATE habits SET`)

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Name, habit.Emoji, habit.Target, habit.Period, habit.Unit,
				habit.UnitLabel, habit.Active, habit.Visibility, habit.ScheduleDowMask, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, habit))
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(habit.Name, habit.Emoji, habit.Target, habit.Period, habit.Unit,
				habit.UnitLabel, habit.Active, habit.Visibility, habit.ScheduleDowMask, habit.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, habit), repository.ErrNotFound)
	})
}
