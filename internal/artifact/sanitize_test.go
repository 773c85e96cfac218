package artifact_test

import (
	"specimenpro/internal/artifact"
	"specimenpro/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Quartz":                   "Quartz",
		"Rose Quartz (pink)":       "Rose Quartz pink",
		"Fool's Gold / Pyrite!":    "Fools Gold  Pyrite",
		"smoky_quartz-01":          "smoky_quartz-01",
		"  padded  ":               "padded",
		"Ägirin":                   "Ägirin",
		"../../etc/passwd":         "etcpasswd",
		"CuSO₄·5H₂O":               "CuSO₄5H₂O",
		"***":                      "specimen",
		"":                         "specimen",
	}
	for in, want := range cases {
		assert.Equal(t, want, artifact.SanitizeName(in), "input %q", in)
	}
}

func TestFileName(t *testing.T) {
	s := models.Specimen{ID: "spec-ef567890", Name: "Blue Calcite?"}
	assert.Equal(t, "Blue Calcite_spec-ef567890.png", artifact.FileName(s))
}

func TestParsePageSize(t *testing.T) {
	size, err := artifact.ParsePageSize("a4")
	assert.NoError(t, err)
	assert.Equal(t, artifact.PageA4, size)

	size, err = artifact.ParsePageSize("LETTER")
	assert.NoError(t, err)
	assert.Equal(t, artifact.PageLetter, size)

	_, err = artifact.ParsePageSize("legal")
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}
