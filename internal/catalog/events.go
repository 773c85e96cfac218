// Package catalog implements the create/update/delete operations over a
// models.Document. Every operation takes its target explicitly.
package catalog

import (
	"fmt"
	"specimenpro/internal/models"
	"specimenpro/internal/utils"
	"time"
)

// now is replaced in tests.
var now = time.Now

// EventUpdate names the scalar fields to replace. Nil fields are left alone.
type EventUpdate struct {
	Title        *string
	Description  *string
	Type         *models.EventType
	Status       *models.EventStatus
	Location     *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
	StartDate    *string
	EndDate      *string
	// AlwaysVisible carries the checkbox state: true stores true, false removes the field.
	AlwaysVisible *bool
}

// CreateEvent appends a draft event with default fields and returns it.
// The returned pointer is valid until the event slice is next modified.
func CreateEvent(doc *models.Document) *models.Event {
	start, end := utils.DayBounds(now())
	ev := models.Event{
		ID:           allocateEventID(doc),
		Title:        "New Event",
		Description:  "Event description",
		Type:         models.EventTypeScavengerHunt,
		Status:       models.EventStatusDraft,
		Location:     "Location",
		Latitude:     0,
		Longitude:    0,
		RadiusMeters: models.DefaultRadiusMeters,
		StartDate:    start,
		EndDate:      end,
		Specimens:    []models.Specimen{},
		Badges:       []models.Badge{},
	}

	doc.Events = append(doc.Events, ev)
	doc.MarkDirty()
	return &doc.Events[len(doc.Events)-1]
}

func FindEvent(doc *models.Document, id string) (*models.Event, error) {
	for i := range doc.Events {
		if doc.Events[i].ID == id {
			return &doc.Events[i], nil
		}
	}
	return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
}

// DeleteEvent removes the event and everything it owns.
func DeleteEvent(doc *models.Document, id string) error {
	kept := doc.Events[:0]
	found := false
	for _, ev := range doc.Events {
		if ev.ID == id {
			found = true
			continue
		}
		kept = append(kept, ev)
	}
	if !found {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	// clear the tail so removed specimens are not retained by the backing array
	for i := len(kept); i < len(doc.Events); i++ {
		doc.Events[i] = models.Event{}
	}
	doc.Events = kept
	doc.MarkDirty()
	return nil
}

// UpdateEvent replaces the named scalar fields. Specimens and badges are untouched.
// Validation runs before any write so a rejected update changes nothing.
func UpdateEvent(doc *models.Document, id string, upd EventUpdate) error {
	ev, err := FindEvent(doc, id)
	if err != nil {
		return err
	}
	if err := upd.validate(); err != nil {
		return err
	}

	setString(&ev.Title, upd.Title)
	setString(&ev.Description, upd.Description)
	setString(&ev.Location, upd.Location)
	setString(&ev.StartDate, upd.StartDate)
	setString(&ev.EndDate, upd.EndDate)
	if upd.Type != nil {
		ev.Type = *upd.Type
	}
	if upd.Status != nil {
		ev.Status = *upd.Status
	}
	if upd.Latitude != nil {
		ev.Latitude = *upd.Latitude
	}
	if upd.Longitude != nil {
		ev.Longitude = *upd.Longitude
	}
	if upd.RadiusMeters != nil {
		ev.RadiusMeters = *upd.RadiusMeters
	}
	if upd.AlwaysVisible != nil {
		if *upd.AlwaysVisible {
			visible := true
			ev.AlwaysVisible = &visible
		} else {
			ev.AlwaysVisible = nil
		}
	}

	doc.MarkDirty()
	return nil
}

func (u EventUpdate) validate() error {
	if u.Type != nil && !u.Type.Valid() {
		return fmt.Errorf("%w: event type %q", models.ErrInvalidField, *u.Type)
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: event status %q", models.ErrInvalidField, *u.Status)
	}
	if u.Latitude != nil && (*u.Latitude < -90 || *u.Latitude > 90) {
		return fmt.Errorf("%w: latitude %g out of range", models.ErrInvalidField, *u.Latitude)
	}
	if u.Longitude != nil && (*u.Longitude < -180 || *u.Longitude > 180) {
		return fmt.Errorf("%w: longitude %g out of range", models.ErrInvalidField, *u.Longitude)
	}
	if u.RadiusMeters != nil && *u.RadiusMeters < 0 {
		return fmt.Errorf("%w: radius %g is negative", models.ErrInvalidField, *u.RadiusMeters)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func allocateEventID(doc *models.Document) string {
	for {
		id := utils.NewID(utils.KindEvent)
		if _, err := FindEvent(doc, id); err != nil {
			return id
		}
	}
}
