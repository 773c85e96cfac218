package catalog

import (
	"fmt"
	"specimenpro/internal/models"
	"specimenpro/internal/utils"
)

// NewSpecimen returns a blank specimen with a fresh ID and common rarity.
func NewSpecimen() models.Specimen {
	return models.Specimen{
		ID:     utils.NewID(utils.KindSpecimen),
		Rarity: models.RarityCommon,
	}
}

func FindSpecimen(ev *models.Event, id string) (*models.Specimen, error) {
	if ev == nil {
		return nil, models.ErrNoActiveEvent
	}
	for i := range ev.Specimens {
		if ev.Specimens[i].ID == id {
			return &ev.Specimens[i], nil
		}
	}
	return nil, fmt.Errorf("specimen %s in event %s: %w", id, ev.ID, models.ErrNotFound)
}

// AddSpecimen appends data to the event. An empty ID is allocated and an
// empty rarity becomes common.
func AddSpecimen(ev *models.Event, data models.Specimen) (*models.Specimen, error) {
	if ev == nil {
		return nil, models.ErrNoActiveEvent
	}
	if data.ID == "" {
		data.ID = allocateSpecimenID(ev)
	} else if _, err := FindSpecimen(ev, data.ID); err == nil {
		return nil, fmt.Errorf("specimen %s: %w", data.ID, models.ErrDuplicateID)
	}
	if data.Rarity == "" {
		data.Rarity = models.RarityCommon
	}
	if !data.Rarity.Valid() {
		return nil, fmt.Errorf("%w: rarity %q", models.ErrInvalidField, data.Rarity)
	}

	ev.Specimens = append(ev.Specimens, data)
	return &ev.Specimens[len(ev.Specimens)-1], nil
}

// UpdateSpecimen replaces the whole record matching id with data. Fields not
// set in data are lost; callers pass the complete record.
func UpdateSpecimen(ev *models.Event, id string, data models.Specimen) error {
	if ev == nil {
		return models.ErrNoActiveEvent
	}
	current, err := FindSpecimen(ev, id)
	if err != nil {
		return err
	}
	if data.ID == "" {
		data.ID = id
	}
	if data.ID != id {
		if _, err := FindSpecimen(ev, data.ID); err == nil {
			return fmt.Errorf("specimen %s: %w", data.ID, models.ErrDuplicateID)
		}
	}
	if data.Rarity != "" && !data.Rarity.Valid() {
		return fmt.Errorf("%w: rarity %q", models.ErrInvalidField, data.Rarity)
	}

	*current = data
	return nil
}

// RemoveSpecimen drops the specimen with id. A missing id is not an error.
func RemoveSpecimen(ev *models.Event, id string) error {
	if ev == nil {
		return models.ErrNoActiveEvent
	}
	kept := make([]models.Specimen, 0, len(ev.Specimens))
	for _, s := range ev.Specimens {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	ev.Specimens = kept
	return nil
}

func allocateSpecimenID(ev *models.Event) string {
	for {
		id := utils.NewID(utils.KindSpecimen)
		if _, err := FindSpecimen(ev, id); err != nil {
			return id
		}
	}
}
