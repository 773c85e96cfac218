package models

const CurrentVersion = 1

// Document is the whole persisted unit: every event plus metadata.
type Document struct {
	Version     int     `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Events      []Event `json:"events"`

	dirty bool
}

func NewDocument() *Document {
	return &Document{Version: CurrentVersion, Events: []Event{}}
}

func (d *Document) MarkDirty() { d.dirty = true }

func (d *Document) MarkClean() { d.dirty = false }

// Dirty reports whether the document changed since it was loaded or last saved.
func (d *Document) Dirty() bool { return d.dirty }

// Clone returns a deep copy without the dirty flag.
func (d *Document) Clone() *Document {
	out := &Document{Version: d.Version, LastUpdated: d.LastUpdated}
	out.Events = make([]Event, len(d.Events))
	for i, ev := range d.Events {
		cp := ev
		cp.Specimens = append(make([]Specimen, 0, len(ev.Specimens)), ev.Specimens...)
		cp.Badges = append(make([]Badge, 0, len(ev.Badges)), ev.Badges...)
		if ev.AlwaysVisible != nil {
			v := *ev.AlwaysVisible
			cp.AlwaysVisible = &v
		}
		out.Events[i] = cp
	}
	return out
}
