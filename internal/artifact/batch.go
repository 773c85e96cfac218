// Package artifact writes QR artifacts for an event, either one PNG per
// specimen or a single paginated PDF grid.
package artifact

import (
	"fmt"
	"specimenpro/internal/layout"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"
	"strings"
)

// BatchError reports how many artifacts were written before a batch stopped.
// Output already on disk is left in place.
type BatchError struct {
	Written int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch stopped after %d artifacts: %v", e.Written, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

type PageSize string

const (
	PageLetter PageSize = "Letter"
	PageA4     PageSize = "A4"
)

func ParsePageSize(s string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "letter", "":
		return PageLetter, nil
	case "a4":
		return PageA4, nil
	}
	return "", fmt.Errorf("%w: page size %q (expected Letter or A4)", models.ErrInvalidConfiguration, s)
}

// encodeItems builds one layout item per specimen in stored order.
func encodeItems(ev *models.Event, enc *qr.Encoder) ([]layout.Item, error) {
	items := make([]layout.Item, 0, len(ev.Specimens))
	for _, s := range ev.Specimens {
		art, err := enc.Encode(ev.ID, s.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, layout.Item{Artifact: art, Name: s.Name, ID: s.ID})
	}
	return items, nil
}

func checkEvent(ev *models.Event) error {
	if ev == nil {
		return models.ErrNoActiveEvent
	}
	if len(ev.Specimens) == 0 {
		return fmt.Errorf("event %s: %w", ev.ID, models.ErrNoArtifacts)
	}
	return nil
}
