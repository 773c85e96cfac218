package store_test

import (
	"context"
	"os"
	"path/filepath"
	"specimenpro/internal/catalog"
	"specimenpro/internal/models"
	"specimenpro/internal/store"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 9, 13, 12, 0, 0, 0, time.UTC)

func TestJSONStoreLoadMissingFile(t *testing.T) {
	s := store.NewJSONStore(filepath.Join(t.TempDir(), "events.json"), nil)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CurrentVersion, doc.Version)
	assert.Empty(t, doc.Events)
	assert.False(t, doc.Dirty())
}

func TestJSONStoreLoadCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	doc, err := store.NewJSONStore(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Events)
}

func TestJSONStoreRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 7, "events": []}`), 0644))

	_, err := store.NewJSONStore(path, nil).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrUnsupportedVersion)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	defer store.SetNow(func() time.Time { return fixedTime })()

	path := filepath.Join(t.TempDir(), "events.json")
	s := store.NewJSONStore(path, nil)
	ctx := context.Background()

	doc := models.NewDocument()
	ev := catalog.CreateEvent(doc)
	_, err := catalog.AddSpecimen(ev, models.Specimen{
		ID:          "spec-1",
		Name:        "Chalcanthite",
		Composition: "CuSO₄·5H₂O",
	})
	require.NoError(t, err)
	require.True(t, doc.Dirty())

	require.NoError(t, s.Save(ctx, doc))
	assert.False(t, doc.Dirty())
	assert.Equal(t, "2025-09-13T12:00:00.000000Z", doc.LastUpdated)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, doc.Events[0], loaded.Events[0])
	assert.Equal(t, "CuSO₄·5H₂O", loaded.Events[0].Specimens[0].Composition)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestJSONStoreOmitsUnsetAlwaysVisible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s := store.NewJSONStore(path, nil)

	doc := models.NewDocument()
	catalog.CreateEvent(doc)
	require.NoError(t, s.Save(context.Background(), doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "alwaysVisible")
	assert.Contains(t, string(data), `"imageUrl": null`)
}

func TestJSONStoreSaveFailureLeavesDocumentUnchanged(t *testing.T) {
	dir := t.TempDir()
	// a directory where the document should be makes the rename fail
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0755))

	doc := models.NewDocument()
	catalog.CreateEvent(doc)
	doc.LastUpdated = "before"

	err := store.NewJSONStore(path, nil).Save(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIO)
	assert.Equal(t, "before", doc.LastUpdated)
	assert.True(t, doc.Dirty())
}

func TestJSONStoreUpdateSerializesEditors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.NewJSONStore(path, nil).Update(context.Background(), func(doc *models.Document) error {
				catalog.CreateEvent(doc)
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	doc, err := store.NewJSONStore(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Events, 8)
}

func TestJSONStoreUpdateWaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	held := flock.New(path + ".lock")
	require.NoError(t, held.Lock())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	called := false
	_, err := store.NewJSONStore(path, nil).Update(ctx, func(doc *models.Document) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, models.ErrIO)
	assert.False(t, called)
	assert.NoFileExists(t, path)

	require.NoError(t, held.Unlock())
	doc, err := store.NewJSONStore(path, nil).Update(context.Background(), func(doc *models.Document) error {
		catalog.CreateEvent(doc)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, doc.Dirty())
	assert.FileExists(t, path)
}

func TestJSONStoreUpdateSkipsCleanAndFailedEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s := store.NewJSONStore(path, nil)

	_, err := s.Update(context.Background(), func(doc *models.Document) error { return nil })
	require.NoError(t, err)
	assert.NoFileExists(t, path)

	_, err = s.Update(context.Background(), func(doc *models.Document) error {
		catalog.CreateEvent(doc)
		return models.ErrNotFound
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoFileExists(t, path)
}
