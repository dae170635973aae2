package collections

import (
	"strings"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

// runewordMetadata is the structured form of a runeword's pipe-delimited
// description, e.g. "Sockets: 3|Highest Rune: Ber|Runes: Ber+Mal+Ber|Ladder: No".
type runewordMetadata struct {
	Runes       []string
	Sockets     string
	HighestRune string
	Ladder      string
	Bases       string
}

// parseRunewordMetadata extracts the rune sequence and related fields from a
// runeword item. The base item types come from the item's type field, falling
// back to a "Runeword Bases" property; the detail text comes from the
// description, falling back to "Runeword Details". Malformed segments are
// skipped, never rejected.
func parseRunewordMetadata(runeword models.Item, props []models.ItemProperty) runewordMetadata {
	md := runewordMetadata{
		Bases: runeword.Type,
	}
	if !hasText(md.Bases) {
		md.Bases = firstPropertyValue(props, "Runeword Bases")
	}

	details := runeword.Description
	if !hasText(details) {
		details = firstPropertyValue(props, "Runeword Details")
	}
	if !hasText(details) {
		return md
	}

	// A repeated key overwrites the earlier occurrence; for "runes" the
	// whole list is replaced, and a final empty list leaves md.Runes unset.
	var parsedRunes []string
	for _, segment := range strings.Split(details, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		colon := strings.Index(segment, ":")
		if colon < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(segment[:colon]))
		value := strings.TrimSpace(segment[colon+1:])
		switch key {
		case "runes":
			parsedRunes = parseRunes(value)
		case "sockets":
			md.Sockets = value
		case "highest rune":
			md.HighestRune = value
		case "ladder":
			md.Ladder = value
		}
	}
	if len(parsedRunes) > 0 {
		md.Runes = parsedRunes
	}

	return md
}

// parseRunes splits "Ber+Mal+Ber" into its ordered rune names. Order is the
// socketing order and is preserved.
func parseRunes(raw string) []string {
	if !hasText(raw) {
		return nil
	}
	parts := strings.Split(raw, "+")
	runes := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		runes = append(runes, part)
	}
	return runes
}

// Description composes the summary line shown under a runeword, joining the
// non-blank parts with a bullet separator.
func (md runewordMetadata) Description() string {
	parts := make([]string, 0, 4)
	if hasText(md.Bases) {
		parts = append(parts, md.Bases)
	}
	if hasText(md.Sockets) {
		parts = append(parts, "Sockets: "+md.Sockets)
	}
	if hasText(md.HighestRune) {
		parts = append(parts, "Highest rune: "+md.HighestRune)
	}
	if hasText(md.Ladder) {
		parts = append(parts, "Ladder: "+md.Ladder)
	}
	return strings.Join(parts, " • ")
}

func firstPropertyValue(props []models.ItemProperty, name string) string {
	for _, prop := range props {
		if strings.EqualFold(prop.PropertyName, name) && hasText(prop.PropertyValue) {
			return prop.PropertyValue
		}
	}
	return ""
}
