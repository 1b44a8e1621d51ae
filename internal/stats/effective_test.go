package stats_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/stats"
)

func logged(ts time.Time, value float64) models.Event {
	return models.Event{ID: uuid.New(), Value: value, TsClient: ts}
}

func voidOf(target models.Event) models.Event {
	return models.Event{
		ID:       uuid.New(),
		TsClient: target.TsClient,
		Meta:     models.NewVoidMeta(target.ID.String(), models.VoidReasonMistap),
	}
}

func TestFilterEffectiveRemovesVoidPairs(t *testing.T) {
	e1 := logged(time.Now(), 1)
	v1 := voidOf(e1)

	assert.Empty(t, stats.FilterEffective([]models.Event{e1, v1}))
	// Order of the pair must not matter.
	assert.Empty(t, stats.FilterEffective([]models.Event{v1, e1}))
}

func TestFilterEffectiveKeepsOrdinaryEvents(t *testing.T) {
	e1 := logged(time.Now(), 1)
	e2 := logged(time.Now().Add(-time.Hour), 2)
	v1 := voidOf(e1)

	out := stats.FilterEffective([]models.Event{e1, e2, v1})

	require.Len(t, out, 1)
	assert.Equal(t, e2.ID, out[0].ID)
}

func TestFilterEffectiveIdempotent(t *testing.T) {
	e1 := logged(time.Now(), 1)
	e2 := logged(time.Now(), 2)
	v1 := voidOf(e1)

	once := stats.FilterEffective([]models.Event{e1, v1, e2})
	twice := stats.FilterEffective(once)

	assert.Equal(t, once, twice)
}

func TestFilterEffectivePreservesOrder(t *testing.T) {
	evs := []models.Event{
		logged(time.Now().Add(2*time.Hour), 1),
		logged(time.Now(), 2),
		logged(time.Now().Add(time.Hour), 3),
	}

	out := stats.FilterEffective(evs)

	require.Len(t, out, 3)
	for i := range evs {
		assert.Equal(t, evs[i].ID, out[i].ID)
	}
}

func TestFilterEffectiveMalformedMeta(t *testing.T) {
	noMeta := logged(time.Now(), 1)
	weirdKind := logged(time.Now(), 1)
	weirdKind.Meta = models.Meta{"kind": 42}
	notVoid := logged(time.Now(), 1)
	notVoid.Meta = models.Meta{"kind": "annotation", "text": "hi"}

	out := stats.FilterEffective([]models.Event{noMeta, weirdKind, notVoid})

	assert.Len(t, out, 3)
}

func TestFilterEffectiveInertVoid(t *testing.T) {
	// A void naming an id that never existed removes nothing but itself.
	e1 := logged(time.Now(), 1)
	stray := models.Event{ID: uuid.New(), Meta: models.NewVoidMeta(uuid.NewString(), models.VoidReasonOther)}

	out := stats.FilterEffective([]models.Event{e1, stray})

	require.Len(t, out, 1)
	assert.Equal(t, e1.ID, out[0].ID)
}

func TestVoidMetaShape(t *testing.T) {
	target := uuid.NewString()
	meta := models.NewVoidMeta(target, models.VoidReasonWrongTime)

	assert.Equal(t, models.Meta{"kind": "void", "void_of": target, "reason": "wrong_time"}, meta)

	// Unknown reasons collapse to "other" rather than leaking free text.
	fallback := models.NewVoidMeta(target, models.VoidReason("fat_finger"))
	assert.Equal(t, "other", fallback["reason"])
}
