package catalog_test

import (
	"specimenpro/internal/catalog"
	"specimenpro/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorMarksDocumentDirty(t *testing.T) {
	doc := models.NewDocument()
	ed := catalog.NewEditor(doc)
	eventID := ed.CreateEvent().ID
	doc.MarkClean()

	s, err := ed.AddSpecimen(eventID, models.Specimen{Name: "Fluorite"})
	require.NoError(t, err)
	assert.True(t, doc.Dirty())

	doc.MarkClean()
	require.NoError(t, ed.RemoveSpecimen(eventID, "spec-missing"))
	assert.False(t, doc.Dirty(), "no-op removal should not dirty the document")

	require.NoError(t, ed.RemoveSpecimen(eventID, s.ID))
	assert.True(t, doc.Dirty())
}

func TestEditorRequiresEvent(t *testing.T) {
	ed := catalog.NewEditor(models.NewDocument())

	_, err := ed.AddSpecimen("", models.Specimen{})
	assert.ErrorIs(t, err, models.ErrNoActiveEvent)

	_, err = ed.AddBadge("event-unknown", models.Badge{})
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, ed.DeleteEvent(""), models.ErrNoActiveEvent)
	assert.ErrorIs(t, ed.UpdateEvent("", catalog.EventUpdate{}), models.ErrNoActiveEvent)
}

func TestEditorBadgeRoundTrip(t *testing.T) {
	doc := models.NewDocument()
	ed := catalog.NewEditor(doc)
	eventID := ed.CreateEvent().ID

	b, err := ed.AddBadge(eventID, catalog.NewBadge())
	require.NoError(t, err)

	b.Title = "Scanner"
	b.RequirementType = models.RequirementScanSpecific
	require.NoError(t, ed.UpdateBadge(eventID, b.ID, b))

	ev, err := catalog.FindEvent(doc, eventID)
	require.NoError(t, err)
	assert.Equal(t, b, ev.Badges[0])

	require.NoError(t, ed.RemoveBadge(eventID, b.ID))
	assert.Empty(t, ev.Badges)
}
