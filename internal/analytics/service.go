// Package analytics summarizes what an event holds and how the document has
// been edited over time.
package analytics

import (
	"specimenpro/internal/models"
)

// EventAnalytics is an aggregate view of one event.
type EventAnalytics struct {
	EventID             string             `json:"event_id"`
	Title               string             `json:"title"`
	TotalSpecimens      int                `json:"total_specimens"`
	SpecimensByRarity   []RarityCount      `json:"specimens_by_rarity"`
	TotalBadges         int                `json:"total_badges"`
	BadgesByRequirement []RequirementCount `json:"badges_by_requirement"`
	// MaxCollectCount is the largest collect_count requirement, 0 when none.
	MaxCollectCount int `json:"max_collect_count"`
	// UnreachableBadges lists collect_count badges asking for more specimens
	// than the event has.
	UnreachableBadges []string `json:"unreachable_badges"`
}

type RarityCount struct {
	Rarity models.Rarity `json:"rarity"`
	Count  int           `json:"count"`
}

type RequirementCount struct {
	RequirementType models.RequirementType `json:"requirement_type"`
	Count           int                    `json:"count"`
}

var rarityOrder = []models.Rarity{
	models.RarityCommon,
	models.RarityUncommon,
	models.RarityRare,
	models.RarityLegendary,
}

var requirementOrder = []models.RequirementType{
	models.RequirementCollectCount,
	models.RequirementCollectAll,
	models.RequirementScanSpecific,
}

// Summarize counts an event's specimens and badges. Every rarity and
// requirement type is listed, including those with a zero count.
func Summarize(ev *models.Event) EventAnalytics {
	out := EventAnalytics{
		EventID:           ev.ID,
		Title:             ev.Title,
		TotalSpecimens:    len(ev.Specimens),
		TotalBadges:       len(ev.Badges),
		UnreachableBadges: []string{},
	}

	rarities := make(map[models.Rarity]int, len(rarityOrder))
	for _, s := range ev.Specimens {
		rarities[s.Rarity]++
	}
	for _, r := range rarityOrder {
		out.SpecimensByRarity = append(out.SpecimensByRarity, RarityCount{Rarity: r, Count: rarities[r]})
	}

	requirements := make(map[models.RequirementType]int, len(requirementOrder))
	for _, b := range ev.Badges {
		requirements[b.RequirementType]++
		if b.RequirementType != models.RequirementCollectCount {
			continue
		}
		if b.Requirement > out.MaxCollectCount {
			out.MaxCollectCount = b.Requirement
		}
		if b.Requirement > len(ev.Specimens) {
			out.UnreachableBadges = append(out.UnreachableBadges, b.ID)
		}
	}
	for _, t := range requirementOrder {
		out.BadgesByRequirement = append(out.BadgesByRequirement, RequirementCount{RequirementType: t, Count: requirements[t]})
	}

	return out
}
