package catalog

import (
	"fmt"
	"specimenpro/internal/models"
	"specimenpro/internal/utils"
)

// NewBadge returns a badge pre-filled with the default icon, color and requirement.
func NewBadge() models.Badge {
	return models.Badge{
		ID:              utils.NewID(utils.KindBadge),
		Icon:            models.DefaultBadgeIcon,
		Color:           models.BadgeColorBlue,
		RequirementType: models.RequirementCollectCount,
		Requirement:     1,
	}
}

func FindBadge(ev *models.Event, id string) (*models.Badge, error) {
	if ev == nil {
		return nil, models.ErrNoActiveEvent
	}
	for i := range ev.Badges {
		if ev.Badges[i].ID == id {
			return &ev.Badges[i], nil
		}
	}
	return nil, fmt.Errorf("badge %s in event %s: %w", id, ev.ID, models.ErrNotFound)
}

func AddBadge(ev *models.Event, data models.Badge) (*models.Badge, error) {
	if ev == nil {
		return nil, models.ErrNoActiveEvent
	}
	if data.ID == "" {
		data.ID = allocateBadgeID(ev)
	} else if _, err := FindBadge(ev, data.ID); err == nil {
		return nil, fmt.Errorf("badge %s: %w", data.ID, models.ErrDuplicateID)
	}
	if err := validateBadge(data); err != nil {
		return nil, err
	}

	ev.Badges = append(ev.Badges, data)
	return &ev.Badges[len(ev.Badges)-1], nil
}

// UpdateBadge replaces the whole badge matching id with data.
func UpdateBadge(ev *models.Event, id string, data models.Badge) error {
	if ev == nil {
		return models.ErrNoActiveEvent
	}
	current, err := FindBadge(ev, id)
	if err != nil {
		return err
	}
	if data.ID == "" {
		data.ID = id
	}
	if data.ID != id {
		if _, err := FindBadge(ev, data.ID); err == nil {
			return fmt.Errorf("badge %s: %w", data.ID, models.ErrDuplicateID)
		}
	}
	if err := validateBadge(data); err != nil {
		return err
	}

	*current = data
	return nil
}

// RemoveBadge drops the badge with id. A missing id is not an error.
func RemoveBadge(ev *models.Event, id string) error {
	if ev == nil {
		return models.ErrNoActiveEvent
	}
	kept := make([]models.Badge, 0, len(ev.Badges))
	for _, b := range ev.Badges {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	ev.Badges = kept
	return nil
}

func validateBadge(b models.Badge) error {
	if b.Requirement < 0 {
		return fmt.Errorf("%w: requirement %d is negative", models.ErrInvalidField, b.Requirement)
	}
	if b.Color != "" && !b.Color.Valid() {
		return fmt.Errorf("%w: badge color %q", models.ErrInvalidField, b.Color)
	}
	if b.RequirementType != "" && !b.RequirementType.Valid() {
		return fmt.Errorf("%w: requirement type %q", models.ErrInvalidField, b.RequirementType)
	}
	return nil
}

func allocateBadgeID(ev *models.Event) string {
	for {
		id := utils.NewID(utils.KindBadge)
		if _, err := FindBadge(ev, id); err != nil {
			return id
		}
	}
}
