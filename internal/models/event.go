package models

type EventType string

const (
	EventTypeExhibit       EventType = "exhibit"
	EventTypeScavengerHunt EventType = "scavenger_hunt"
	EventTypeCompetition   EventType = "competition"
	EventTypeWorkshop      EventType = "workshop"
)

type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusEnded    EventStatus = "ended"
	EventStatusDraft    EventStatus = "draft"
)

const DefaultRadiusMeters = 100

type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Type         EventType   `json:"type"`
	Status       EventStatus `json:"status"`
	Location     string      `json:"location"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	RadiusMeters float64     `json:"radiusMeters"`
	// AlwaysVisible is either true or absent; false is never written.
	AlwaysVisible *bool      `json:"alwaysVisible,omitempty"`
	StartDate     string     `json:"startDate"`
	EndDate       string     `json:"endDate"`
	ImageURL      *string    `json:"imageUrl"`
	Specimens     []Specimen `json:"specimens"`
	Badges        []Badge    `json:"badges"`
}

// IsAlwaysVisible reports the effective flag, treating an absent value as false.
func (e *Event) IsAlwaysVisible() bool {
	return e.AlwaysVisible != nil && *e.AlwaysVisible
}

func (t EventType) Valid() bool {
	switch t {
	case EventTypeExhibit, EventTypeScavengerHunt, EventTypeCompetition, EventTypeWorkshop:
		return true
	}
	return false
}

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusActive, EventStatusUpcoming, EventStatusEnded, EventStatusDraft:
		return true
	}
	return false
}
