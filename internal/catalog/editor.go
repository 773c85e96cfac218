package catalog

import (
	"specimenpro/internal/models"
)

// Editor binds a document so event-scoped edits can be addressed by event ID
// and mark the document dirty.
type Editor struct {
	Doc *models.Document
}

func NewEditor(doc *models.Document) *Editor {
	return &Editor{Doc: doc}
}

func (e *Editor) event(eventID string) (*models.Event, error) {
	if eventID == "" {
		return nil, models.ErrNoActiveEvent
	}
	return FindEvent(e.Doc, eventID)
}

func (e *Editor) CreateEvent() *models.Event {
	return CreateEvent(e.Doc)
}

func (e *Editor) UpdateEvent(eventID string, upd EventUpdate) error {
	if eventID == "" {
		return models.ErrNoActiveEvent
	}
	return UpdateEvent(e.Doc, eventID, upd)
}

func (e *Editor) DeleteEvent(eventID string) error {
	if eventID == "" {
		return models.ErrNoActiveEvent
	}
	return DeleteEvent(e.Doc, eventID)
}

func (e *Editor) AddSpecimen(eventID string, data models.Specimen) (models.Specimen, error) {
	ev, err := e.event(eventID)
	if err != nil {
		return models.Specimen{}, err
	}
	s, err := AddSpecimen(ev, data)
	if err != nil {
		return models.Specimen{}, err
	}
	e.Doc.MarkDirty()
	return *s, nil
}

func (e *Editor) UpdateSpecimen(eventID, id string, data models.Specimen) error {
	ev, err := e.event(eventID)
	if err != nil {
		return err
	}
	if err := UpdateSpecimen(ev, id, data); err != nil {
		return err
	}
	e.Doc.MarkDirty()
	return nil
}

func (e *Editor) RemoveSpecimen(eventID, id string) error {
	ev, err := e.event(eventID)
	if err != nil {
		return err
	}
	before := len(ev.Specimens)
	if err := RemoveSpecimen(ev, id); err != nil {
		return err
	}
	if len(ev.Specimens) != before {
		e.Doc.MarkDirty()
	}
	return nil
}

func (e *Editor) AddBadge(eventID string, data models.Badge) (models.Badge, error) {
	ev, err := e.event(eventID)
	if err != nil {
		return models.Badge{}, err
	}
	b, err := AddBadge(ev, data)
	if err != nil {
		return models.Badge{}, err
	}
	e.Doc.MarkDirty()
	return *b, nil
}

func (e *Editor) UpdateBadge(eventID, id string, data models.Badge) error {
	ev, err := e.event(eventID)
	if err != nil {
		return err
	}
	if err := UpdateBadge(ev, id, data); err != nil {
		return err
	}
	e.Doc.MarkDirty()
	return nil
}

func (e *Editor) RemoveBadge(eventID, id string) error {
	ev, err := e.event(eventID)
	if err != nil {
		return err
	}
	before := len(ev.Badges)
	if err := RemoveBadge(ev, id); err != nil {
		return err
	}
	if len(ev.Badges) != before {
		e.Doc.MarkDirty()
	}
	return nil
}
