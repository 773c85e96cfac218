package catalog_test

import (
	"specimenpro/internal/catalog"
	"specimenpro/internal/models"
	"specimenpro/internal/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateEventDefaults(t *testing.T) {
	doc := models.NewDocument()

	ev := catalog.CreateEvent(doc)

	assert.True(t, utils.HasKind(ev.ID, utils.KindEvent))
	assert.Equal(t, models.EventStatusDraft, ev.Status)
	assert.Equal(t, 0.0, ev.Latitude)
	assert.Equal(t, 0.0, ev.Longitude)
	assert.Equal(t, 100.0, ev.RadiusMeters)
	assert.Nil(t, ev.AlwaysVisible)
	assert.Empty(t, ev.Specimens)
	assert.Empty(t, ev.Badges)
	assert.Len(t, doc.Events, 1)
	assert.True(t, doc.Dirty())
}

func TestCreateEventIDsUnique(t *testing.T) {
	doc := models.NewDocument()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		ev := catalog.CreateEvent(doc)
		assert.False(t, seen[ev.ID])
		seen[ev.ID] = true
	}
}

func TestDeleteEvent(t *testing.T) {
	doc := models.NewDocument()
	first := catalog.CreateEvent(doc).ID
	second := catalog.CreateEvent(doc).ID

	require.NoError(t, catalog.DeleteEvent(doc, first))
	require.Len(t, doc.Events, 1)
	assert.Equal(t, second, doc.Events[0].ID)

	err := catalog.DeleteEvent(doc, "event-missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Len(t, doc.Events, 1)
}

func TestUpdateEventScalarFields(t *testing.T) {
	doc := models.NewDocument()
	ev := catalog.CreateEvent(doc)
	_, err := catalog.AddSpecimen(ev, models.Specimen{ID: "spec-1", Name: "Quartz"})
	require.NoError(t, err)
	id := ev.ID

	err = catalog.UpdateEvent(doc, id, catalog.EventUpdate{
		Title:  ptr("Gem Fair"),
		Type:   ptr(models.EventTypeExhibit),
		Status: ptr(models.EventStatusActive),
	})
	require.NoError(t, err)

	got, err := catalog.FindEvent(doc, id)
	require.NoError(t, err)
	assert.Equal(t, "Gem Fair", got.Title)
	assert.Equal(t, models.EventTypeExhibit, got.Type)
	assert.Equal(t, models.EventStatusActive, got.Status)
	assert.Equal(t, "Location", got.Location)
	assert.Len(t, got.Specimens, 1)
}

func TestUpdateEventAlwaysVisibleTriState(t *testing.T) {
	doc := models.NewDocument()
	id := catalog.CreateEvent(doc).ID

	require.NoError(t, catalog.UpdateEvent(doc, id, catalog.EventUpdate{AlwaysVisible: ptr(true)}))
	ev, _ := catalog.FindEvent(doc, id)
	require.NotNil(t, ev.AlwaysVisible)
	assert.True(t, *ev.AlwaysVisible)

	require.NoError(t, catalog.UpdateEvent(doc, id, catalog.EventUpdate{AlwaysVisible: ptr(false)}))
	ev, _ = catalog.FindEvent(doc, id)
	assert.Nil(t, ev.AlwaysVisible)
	assert.False(t, ev.IsAlwaysVisible())
}

func TestUpdateEventRejectsInvalidWithoutChanges(t *testing.T) {
	doc := models.NewDocument()
	id := catalog.CreateEvent(doc).ID

	err := catalog.UpdateEvent(doc, id, catalog.EventUpdate{
		Title:  ptr("Should not apply"),
		Status: ptr(models.EventStatus("archived")),
	})
	assert.ErrorIs(t, err, models.ErrInvalidField)

	ev, _ := catalog.FindEvent(doc, id)
	assert.Equal(t, "New Event", ev.Title)
	assert.Equal(t, models.EventStatusDraft, ev.Status)

	err = catalog.UpdateEvent(doc, "event-nope", catalog.EventUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddThenRemoveSpecimen(t *testing.T) {
	doc := models.NewDocument()
	ev := catalog.CreateEvent(doc)

	_, err := catalog.AddSpecimen(ev, models.Specimen{ID: "spec-1", Name: "Quartz", Locality: "Arkansas"})
	require.NoError(t, err)
	require.Len(t, ev.Specimens, 1)

	require.NoError(t, catalog.RemoveSpecimen(ev, "spec-1"))
	assert.Empty(t, ev.Specimens)
}

func TestAddSpecimenAllocatesIDAndRejectsDuplicates(t *testing.T) {
	ev := catalog.CreateEvent(models.NewDocument())

	s, err := catalog.AddSpecimen(ev, models.Specimen{Name: "Galena"})
	require.NoError(t, err)
	assert.True(t, utils.HasKind(s.ID, utils.KindSpecimen))
	assert.Equal(t, models.RarityCommon, s.Rarity)

	_, err = catalog.AddSpecimen(ev, models.Specimen{ID: s.ID, Name: "Other"})
	assert.ErrorIs(t, err, models.ErrDuplicateID)
	assert.Len(t, ev.Specimens, 1)
}

func TestUpdateSpecimenFullReplace(t *testing.T) {
	ev := catalog.CreateEvent(models.NewDocument())
	_, err := catalog.AddSpecimen(ev, models.Specimen{
		ID:       "spec-1",
		Name:     "Gypsum",
		Locality: "Naica",
		Story:    "found in a cave",
	})
	require.NoError(t, err)

	data := models.Specimen{
		ID:          "spec-1",
		Name:        "Selenite",
		Rarity:      models.RarityRare,
		Composition: "CaSO₄·2H₂O",
	}
	require.NoError(t, catalog.UpdateSpecimen(ev, "spec-1", data))

	got, err := catalog.FindSpecimen(ev, "spec-1")
	require.NoError(t, err)
	assert.Equal(t, data, *got)
	assert.Empty(t, got.Story)
}

func TestUpdateSpecimenMissing(t *testing.T) {
	ev := catalog.CreateEvent(models.NewDocument())
	err := catalog.UpdateSpecimen(ev, "spec-x", models.Specimen{Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveMissingSpecimenIsNoOp(t *testing.T) {
	ev := catalog.CreateEvent(models.NewDocument())
	_, err := catalog.AddSpecimen(ev, models.Specimen{ID: "spec-1", Name: "Quartz"})
	require.NoError(t, err)
	before := append([]models.Specimen(nil), ev.Specimens...)

	assert.NoError(t, catalog.RemoveSpecimen(ev, "spec-404"))
	assert.Equal(t, before, ev.Specimens)
}

func TestNilEventIsNoActiveEvent(t *testing.T) {
	_, err := catalog.AddSpecimen(nil, models.Specimen{})
	assert.ErrorIs(t, err, models.ErrNoActiveEvent)
	assert.ErrorIs(t, catalog.UpdateSpecimen(nil, "a", models.Specimen{}), models.ErrNoActiveEvent)
	assert.ErrorIs(t, catalog.RemoveSpecimen(nil, "a"), models.ErrNoActiveEvent)
	_, err = catalog.AddBadge(nil, models.Badge{})
	assert.ErrorIs(t, err, models.ErrNoActiveEvent)
	assert.ErrorIs(t, catalog.RemoveBadge(nil, "a"), models.ErrNoActiveEvent)
}

func TestBadgeLifecycle(t *testing.T) {
	ev := catalog.CreateEvent(models.NewDocument())

	b := catalog.NewBadge()
	b.Title = "Collector"
	added, err := catalog.AddBadge(ev, b)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBadgeIcon, added.Icon)
	assert.Equal(t, models.BadgeColorBlue, added.Color)

	replacement := models.Badge{
		ID:              b.ID,
		Title:           "Master Collector",
		Color:           models.BadgeColorGold,
		RequirementType: models.RequirementCollectAll,
		Requirement:     0,
	}
	require.NoError(t, catalog.UpdateBadge(ev, b.ID, replacement))
	got, err := catalog.FindBadge(ev, b.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, *got)

	bad := replacement
	bad.Requirement = -1
	assert.ErrorIs(t, catalog.UpdateBadge(ev, b.ID, bad), models.ErrInvalidField)
	got, _ = catalog.FindBadge(ev, b.ID)
	assert.Equal(t, 0, got.Requirement)

	require.NoError(t, catalog.RemoveBadge(ev, "badge-missing"))
	assert.Len(t, ev.Badges, 1)
	require.NoError(t, catalog.RemoveBadge(ev, b.ID))
	assert.Empty(t, ev.Badges)
}

func TestDeleteEventDiscardsOwnedRecords(t *testing.T) {
	doc := models.NewDocument()
	ev := catalog.CreateEvent(doc)
	_, err := catalog.AddSpecimen(ev, models.Specimen{ID: "spec-1"})
	require.NoError(t, err)
	id := ev.ID

	require.NoError(t, catalog.DeleteEvent(doc, id))
	_, err = catalog.FindEvent(doc, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, doc.Events)
}
