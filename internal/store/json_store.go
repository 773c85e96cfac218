package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// JSONStore keeps the document in one indented JSON file guarded by a sibling lock file.
type JSONStore struct {
	Path   string
	Logger *logger.Logger
}

func NewJSONStore(path string, log *logger.Logger) *JSONStore {
	if log == nil {
		log = logger.Nop()
	}
	return &JSONStore{Path: path, Logger: log}
}

func (s *JSONStore) lock(ctx context.Context) (*flock.Flock, error) {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", models.ErrIO, dir, err)
		}
	}
	fl := flock.New(s.Path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", models.ErrIO, s.Path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: lock %s: not acquired", models.ErrIO, s.Path)
	}
	return fl, nil
}

// Load reads the document. A missing or unreadable file yields an empty
// document; an unsupported version is returned as an error.
func (s *JSONStore) Load(ctx context.Context) (*models.Document, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.Logger.LogDocument("LOAD", s.Path, "no document yet, starting empty")
		return emptyDocument(), nil
	}
	if err != nil {
		s.Logger.Warn("DOCUMENT", fmt.Sprintf("Failed to read %s: %v; starting empty", s.Path, err))
		return emptyDocument(), nil
	}

	doc, err := decode(data)
	if errors.Is(err, models.ErrUnsupportedVersion) {
		return nil, fmt.Errorf("load %s: %w", s.Path, err)
	}
	if err != nil {
		s.Logger.Warn("DOCUMENT", fmt.Sprintf("Failed to parse %s: %v; starting empty", s.Path, err))
		return emptyDocument(), nil
	}

	s.Logger.LogDocument("LOAD", s.Path, fmt.Sprintf("%d events", len(doc.Events)))
	return doc, nil
}

// Save writes to a temp file and renames it over the document.
func (s *JSONStore) Save(ctx context.Context, doc *models.Document) error {
	fl, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	return s.write(doc)
}

// Update holds the lock file from the read through the rename, so concurrent
// editors of the same path apply their changes one after another.
func (s *JSONStore) Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	fl, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if doc.Dirty() {
		if err := s.write(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// write expects the caller to hold the lock.
func (s *JSONStore) write(doc *models.Document) error {
	out := stamped(doc)
	data, err := encode(out)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", models.ErrIO, err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", models.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", models.ErrIO, s.Path, err)
	}

	commit(doc, out)
	s.Logger.LogDocument("SAVE", s.Path, fmt.Sprintf("%d events at %s", len(out.Events), out.LastUpdated))
	return nil
}
