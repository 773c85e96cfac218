package config_test

import (
	"specimenpro/internal/config"
	"specimenpro/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "events.json", cfg.Document.Path)
	assert.Equal(t, "json", cfg.Document.Store)
	assert.Equal(t, "highest", cfg.QR.ErrorCorrection)
	assert.Equal(t, 3, cfg.PDF.Columns)
	assert.Equal(t, 4, cfg.PDF.Rows)
	assert.Equal(t, 2.0, cfg.PDF.CellInches)
	assert.True(t, cfg.PDF.IncludeNames)
	assert.False(t, cfg.PDF.IncludeIDs)
	assert.Equal(t, 60*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Kafka.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PDF_COLUMNS", "5")
	t.Setenv("PDF_CELL_INCHES", "1.25")
	t.Setenv("PDF_INCLUDE_IDS", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("SPECIMEN_STORE", "SQLITE")

	cfg := config.Load()

	assert.Equal(t, 5, cfg.PDF.Columns)
	assert.Equal(t, 1.25, cfg.PDF.CellInches)
	assert.True(t, cfg.PDF.IncludeIDs)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "sqlite", cfg.Document.Store)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("PDF_ROWS", "many")
	t.Setenv("PDF_TITLE_PAGE", "maybe")

	cfg := config.Load()

	assert.Equal(t, 4, cfg.PDF.Rows)
	assert.True(t, cfg.PDF.IncludeTitlePage)
}

func TestValidate(t *testing.T) {
	cfg := config.Load()
	cfg.PDF.Columns = 0
	cfg.PDF.CellInches = -1
	cfg.Document.Store = "mongo"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "PDF_COLUMNS")
	assert.Contains(t, err.Error(), "PDF_CELL_INCHES")
	assert.Contains(t, err.Error(), "SPECIMEN_STORE")
}
