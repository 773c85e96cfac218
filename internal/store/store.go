// Package store loads and saves the whole events document.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"specimenpro/internal/models"
	"specimenpro/internal/utils"
	"time"
)

// DocumentStore persists the document as one unit.
type DocumentStore interface {
	// Load returns the stored document, or a fresh empty one when nothing usable exists.
	Load(ctx context.Context) (*models.Document, error)
	// Save stamps lastUpdated and writes doc. On failure doc is left unchanged.
	Save(ctx context.Context, doc *models.Document) error
	// Update runs one load, fn, save cycle under the store's write lock and
	// returns the resulting document. Nothing is written when fn fails or
	// leaves the document clean.
	Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error)
}

// now is replaced in tests.
var now = time.Now

func decode(data []byte) (*models.Document, error) {
	doc := &models.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	if doc.Version != models.CurrentVersion {
		return nil, fmt.Errorf("%w: %d", models.ErrUnsupportedVersion, doc.Version)
	}
	if doc.Events == nil {
		doc.Events = []models.Event{}
	}
	for i := range doc.Events {
		if doc.Events[i].Specimens == nil {
			doc.Events[i].Specimens = []models.Specimen{}
		}
		if doc.Events[i].Badges == nil {
			doc.Events[i].Badges = []models.Badge{}
		}
	}
	return doc, nil
}

// stamped returns a copy of doc with a fresh lastUpdated, ready to encode.
func stamped(doc *models.Document) *models.Document {
	out := doc.Clone()
	if out.Version == 0 {
		out.Version = models.CurrentVersion
	}
	out.LastUpdated = utils.Timestamp(now())
	return out
}

func encode(doc *models.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// commit copies the saved stamp back onto the caller's document.
func commit(doc, saved *models.Document) {
	doc.Version = saved.Version
	doc.LastUpdated = saved.LastUpdated
	doc.MarkClean()
}

func emptyDocument() *models.Document {
	doc := models.NewDocument()
	doc.LastUpdated = utils.Timestamp(now())
	return doc
}
