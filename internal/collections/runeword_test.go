package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

func TestParseRunewordMetadataFullDescription(t *testing.T) {
	rw := models.Item{
		ID:          1,
		Name:        "Crescent Moon",
		Type:        "Axes, Swords, Polearms",
		Quality:     "Runeword",
		Description: "Sockets: 3|Highest Rune: Ber|Runes: Ber+Mal+Ber|Ladder: No",
	}

	md := parseRunewordMetadata(rw, nil)

	assert.Equal(t, []string{"Ber", "Mal", "Ber"}, md.Runes)
	assert.Equal(t, "3", md.Sockets)
	assert.Equal(t, "Ber", md.HighestRune)
	assert.Equal(t, "No", md.Ladder)
	assert.Equal(t, "Axes, Swords, Polearms", md.Bases)
}

func TestParseRunewordMetadataPropertyFallbacks(t *testing.T) {
	rw := models.Item{ID: 1, Name: "Stealth", Quality: "Runeword"}
	props := []models.ItemProperty{
		{ItemID: 1, PropertyName: "runeword bases", PropertyValue: "Body Armor"},
		{ItemID: 1, PropertyName: "Runeword Details", PropertyValue: "Runes: Tal+Eth|Sockets: 2"},
	}

	md := parseRunewordMetadata(rw, props)

	assert.Equal(t, "Body Armor", md.Bases)
	assert.Equal(t, []string{"Tal", "Eth"}, md.Runes)
	assert.Equal(t, "2", md.Sockets)
}

func TestParseRunewordMetadataItemFieldsWin(t *testing.T) {
	rw := models.Item{
		ID:          1,
		Name:        "Spirit",
		Type:        "Swords, Shields",
		Quality:     "Runeword",
		Description: "Runes: Tal+Thul+Ort+Amn",
	}
	props := []models.ItemProperty{
		{ItemID: 1, PropertyName: "Runeword Bases", PropertyValue: "ignored"},
		{ItemID: 1, PropertyName: "Runeword Details", PropertyValue: "Runes: ignored"},
	}

	md := parseRunewordMetadata(rw, props)

	assert.Equal(t, "Swords, Shields", md.Bases)
	assert.Equal(t, []string{"Tal", "Thul", "Ort", "Amn"}, md.Runes)
}

func TestParseRunewordMetadataTolerance(t *testing.T) {
	rw := models.Item{
		ID:      1,
		Name:    "Weird",
		Quality: "Runeword",
		// Segment without a colon is skipped; unknown keys are ignored;
		// whitespace around keys, values, and runes is trimmed.
		Description: " no colon here | Color: Gold |  RUNES :  Zod + + Cham  | Sockets: 2 ",
	}

	md := parseRunewordMetadata(rw, nil)

	assert.Equal(t, []string{"Zod", "Cham"}, md.Runes)
	assert.Equal(t, "2", md.Sockets)
	assert.Empty(t, md.HighestRune)
	assert.Empty(t, md.Ladder)
}

func TestParseRunewordMetadataRepeatedKeys(t *testing.T) {
	rw := models.Item{
		ID:          1,
		Name:        "Twice",
		Quality:     "Runeword",
		Description: "Sockets: 2|Runes: El+Eld|Sockets: 3|Runes: Zod",
	}

	md := parseRunewordMetadata(rw, nil)

	// Assignment, not accumulation: the later segment wins outright.
	assert.Equal(t, "3", md.Sockets)
	assert.Equal(t, []string{"Zod"}, md.Runes)
}

func TestParseRunewordMetadataRepeatedRunesEndingEmpty(t *testing.T) {
	rw := models.Item{
		ID:          1,
		Name:        "Hollow",
		Quality:     "Runeword",
		Description: "Runes: El+Eld|Runes: ",
	}

	md := parseRunewordMetadata(rw, nil)

	// The final (empty) runes segment replaces the earlier list entirely.
	assert.Empty(t, md.Runes)
}

func TestParseRunewordMetadataNoDetails(t *testing.T) {
	rw := models.Item{ID: 1, Name: "Bare", Quality: "Runeword"}

	md := parseRunewordMetadata(rw, nil)

	assert.Empty(t, md.Runes)
	assert.Empty(t, md.Bases)
	assert.Empty(t, md.Description())
}

func TestRunewordDescriptionComposition(t *testing.T) {
	md := runewordMetadata{
		Bases:       "Polearms",
		Sockets:     "4",
		HighestRune: "Ber",
		Ladder:      "Yes",
	}
	assert.Equal(t, "Polearms • Sockets: 4 • Highest rune: Ber • Ladder: Yes", md.Description())

	partial := runewordMetadata{Sockets: "2"}
	assert.Equal(t, "Sockets: 2", partial.Description())
}
