package utils_test

import (
	"regexp"
	"specimenpro/internal/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIDFormat(t *testing.T) {
	cases := map[utils.IDKind]*regexp.Regexp{
		utils.KindEvent:    regexp.MustCompile(`^event-[0-9a-f]{8}$`),
		utils.KindSpecimen: regexp.MustCompile(`^spec-[0-9a-f]{8}$`),
		utils.KindBadge:    regexp.MustCompile(`^badge-[0-9a-f]{8}$`),
	}

	for kind, pattern := range cases {
		id := utils.NewID(kind)
		assert.Regexp(t, pattern, id, "kind %s", kind)
		assert.True(t, utils.HasKind(id, kind))
	}
}

func TestNewIDPrefixesAreDistinct(t *testing.T) {
	assert.False(t, utils.HasKind(utils.NewID(utils.KindSpecimen), utils.KindEvent))
	assert.False(t, utils.HasKind(utils.NewID(utils.KindEvent), utils.KindSpecimen))
	assert.False(t, utils.HasKind(utils.NewID(utils.KindBadge), utils.KindSpecimen))
}

func TestNewIDNoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := utils.NewID(utils.KindSpecimen)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestTimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("plus5", 5*60*60)
	ts := utils.Timestamp(time.Date(2025, 3, 1, 10, 0, 0, 0, loc))
	assert.Equal(t, "2025-03-01T05:00:00.000000Z", ts)

	start, end := utils.DayBounds(time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-01T00:00:00Z", start)
	assert.Equal(t, "2025-03-01T23:59:59Z", end)
}
