package models

type BadgeColor string

const (
	BadgeColorBlue   BadgeColor = "blue"
	BadgeColorGold   BadgeColor = "gold"
	BadgeColorGreen  BadgeColor = "green"
	BadgeColorRed    BadgeColor = "red"
	BadgeColorPurple BadgeColor = "purple"
)

type RequirementType string

const (
	RequirementCollectCount RequirementType = "collect_count"
	RequirementCollectAll   RequirementType = "collect_all"
	RequirementScanSpecific RequirementType = "scan_specific"
)

const DefaultBadgeIcon = "star.fill"

type Badge struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Icon            string          `json:"icon"`
	Color           BadgeColor      `json:"color"`
	RequirementType RequirementType `json:"requirementType"`
	Requirement     int             `json:"requirement"`
}

func (c BadgeColor) Valid() bool {
	switch c {
	case BadgeColorBlue, BadgeColorGold, BadgeColorGreen, BadgeColorRed, BadgeColorPurple:
		return true
	}
	return false
}

func (r RequirementType) Valid() bool {
	switch r {
	case RequirementCollectCount, RequirementCollectAll, RequirementScanSpecific:
		return true
	}
	return false
}
