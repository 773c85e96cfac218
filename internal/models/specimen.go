package models

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

// Specimen is a physical item on display. Composition is free text and may hold
// sub/superscript or hydration characters; it is stored as-is.
type Specimen struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Locality     string  `json:"locality"`
	Description  string  `json:"description"`
	Rarity       Rarity  `json:"rarity"`
	PhotoURL     string  `json:"photoUrl"`
	AudioNoteURL string  `json:"audioNoteUrl"`
	Composition  string  `json:"composition"`
	FunFacts     string  `json:"funFacts"`
	Story        string  `json:"story"`
	ImageURL     *string `json:"imageUrl"`
}
