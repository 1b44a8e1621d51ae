package repository_test

import (
	"context"
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

var eventCols = []string{
	"id", "habit_id", "user_id", "value", "note", "ts_client", "ts_server",
	"source", "client_id", "meta",
}

func eventRow(e *models.Event) *pgxmock.Rows {
	return pgxmock.NewRows(eventCols).
		AddRow(e.ID, e.HabitID, e.UserID, e.Value, e.Note, e.TsClient, e.TsServer,
			e.Source, e.ClientID, e.Meta)
}

func TestCreateEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewEventRepository(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO events`)

	event := &models.Event{
		HabitID:  uuid.New(),
		UserID:   uuid.New(),
		Value:    1,
		TsClient: time.Now().UTC(),
		Source:   models.SourceUI,
	}

	t.Run("created", func(t *testing.T) {
		stored := *event
		stored.ID = uuid.New()
		stored.TsServer = time.Now().UTC()
		mock.ExpectQuery(query).
			WithArgs(event.HabitID, event.UserID, event.Value, event.Note,
				event.TsClient, event.Source, event.ClientID, event.Meta).
			WillReturnRows(eventRow(&stored))
		created, err := repo.Create(ctx, event)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID, created.ID)
		assert.False(t, created.TsServer.IsZero())
	})

	t.Run("imported event keeps id and ts_server", func(t *testing.T) {
		imported := *event
		imported.ID = uuid.New()
		imported.TsServer = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		imported.Source = models.SourceImport
		mock.ExpectQuery(`INSERT INTO events \(.*\bid\b.*ts_server.*\)`).
			WithArgs(imported.HabitID, imported.UserID, imported.Value, imported.Note,
				imported.TsClient, imported.Source, imported.ClientID, imported.Meta,
				imported.ID, imported.TsServer).
			WillReturnRows(eventRow(&imported))
		created, err := repo.Create(ctx, &imported)
		assert.NoError(t, err)
		assert.Equal(t, imported.ID, created.ID)
		assert.True(t, created.TsServer.Equal(imported.TsServer))
	})

	t.Run("duplicate client id maps to sentinel", func(t *testing.T) {
		clientID := "device-42"
		dup := *event
		dup.ClientID = &clientID
		mock.ExpectQuery(query).
			WithArgs(dup.HabitID, dup.UserID, dup.Value, dup.Note,
				dup.TsClient, dup.Source, dup.ClientID, dup.Meta).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_events_client_dedupe"})
		_, err := repo.Create(ctx, &dup)
		assert.ErrorIs(t, err, repository.ErrDuplicateClientID)
	})

	t.Run("missing habit maps to FK sentinel", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(event.HabitID, event.UserID, event.Value, event.Note,
				event.TsClient, event.Source, event.ClientID, event.Meta).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, event)
		assert.ErrorIs(t, err, repository.ErrForeignKey)
	})
}

func TestGetEventByClientID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewEventRepository(mock)
	ctx := context.Background()
	query := regexp.QuoteMeta(`WHERE habit_id = $1 AND client_id = $2`)

	habitID := uuid.New()
	clientID := "device-42"

	t.Run("found", func(t *testing.T) {
		stored := &models.Event{
			ID: uuid.New(), HabitID: habitID, UserID: uuid.New(),
			Value: 1, TsClient: time.Now().UTC(), TsServer: time.Now().UTC(),
			Source: models.SourceUI, ClientID: &clientID,
		}
		mock.ExpectQuery(query).WithArgs(habitID, clientID).WillReturnRows(eventRow(stored))
		got, err := repo.GetByClientID(ctx, habitID, clientID)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(habitID, clientID).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByClientID(ctx, habitID, clientID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListByHabitBounds(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewEventRepository(mock)
	ctx := context.Background()
	habitID := uuid.New()

	from := time.Date(2023, 6, 1, 4, 0, 0, 0, time.UTC)
	to := time.Date(2023, 7, 1, 4, 0, 0, 0, time.UTC)

	t.Run("both bounds", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`ts_client >= $2 AND ts_client < $3`)).
			WithArgs(habitID, from, to).
			WillReturnRows(pgxmock.NewRows(eventCols))
		events, err := repo.ListByHabit(ctx, habitID, &from, &to)
		assert.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("no bounds", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM events WHERE habit_id = $1 ORDER BY ts_client`)).
			WithArgs(habitID).
			WillReturnRows(pgxmock.NewRows(eventCols))
		_, err := repo.ListByHabit(ctx, habitID, nil, nil)
		assert.NoError(t, err)
	})
}

func TestGetVoidOf(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewEventRepository(mock)
	ctx := context.Background()
	habitID := uuid.New()
	targetID := uuid.New().String()
	query := regexp.QuoteMeta(`meta->>'void_of' = $2`)

	t.Run("exists", func(t *testing.T) {
		void := &models.Event{
			ID: uuid.New(), HabitID: habitID, UserID: uuid.New(),
			Value: 0, TsClient: time.Now().UTC(), TsServer: time.Now().UTC(),
			Source: models.SourceUI,
			Meta:   models.NewVoidMeta(targetID, models.VoidReasonMistap),
		}
		mock.ExpectQuery(query).WithArgs(habitID, targetID).WillReturnRows(eventRow(void))
		got, err := repo.GetVoidOf(ctx, habitID, targetID)
		assert.NoError(t, err)
		assert.Equal(t, void.ID, got.ID)
	})

	t.Run("does not exist", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(habitID, targetID).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetVoidOf(ctx, habitID, targetID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestExistsDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewEventRepository(mock)
	ctx := context.Background()

	event := &models.Event{
		HabitID:  uuid.New(),
		Value:    2,
		TsClient: time.Now().UTC(),
	}
	query := regexp.QuoteMeta(`IS NOT DISTINCT FROM $4`)

	t.Run("duplicate present", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(event.HabitID, event.TsClient, event.Value, event.ClientID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		exists, err := repo.ExistsDuplicate(ctx, event)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("no duplicate", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(event.HabitID, event.TsClient, event.Value, event.ClientID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		exists, err := repo.ExistsDuplicate(ctx, event)
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}
