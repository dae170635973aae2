package api

import (
	"strings"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

// deriveVariants groups an item's "Variant ..." properties into labelled
// variants. The first non-blank value under a label becomes the variant's
// description, later values become attributes. Items without variant
// properties fall back to a single variant built from the item itself.
func deriveVariants(item models.Item, properties []models.ItemProperty) []models.ItemVariant {
	byLabel := make(map[string]*models.ItemVariant)
	var order []string

	for _, prop := range properties {
		if !strings.HasPrefix(strings.ToLower(prop.PropertyName), "variant") {
			continue
		}
		label := variantLabel(prop.PropertyName, prop.PropertyValue)
		variant, ok := byLabel[label]
		if !ok {
			variant = &models.ItemVariant{Label: label, Attributes: []string{}}
			byLabel[label] = variant
			order = append(order, label)
		}
		addVariantValue(variant, prop.PropertyValue)
	}

	variants := make([]models.ItemVariant, 0, len(order))
	for _, label := range order {
		variants = append(variants, *byLabel[label])
	}

	if len(variants) == 0 && strings.TrimSpace(item.Description) != "" {
		variants = append(variants, models.ItemVariant{
			Label:       item.Name,
			Description: item.Description,
			Attributes:  []string{},
		})
	}

	return variants
}

func addVariantValue(variant *models.ItemVariant, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if variant.Description == "" {
		variant.Description = value
		return
	}
	variant.Attributes = append(variant.Attributes, value)
}

// variantLabel strips the "Variant" prefix and any ":" or "-" separator from
// a property name. Blank labels fall back to the property value.
func variantLabel(propertyName, fallback string) string {
	label := strings.TrimSpace(propertyName[len("Variant"):])
	label = strings.TrimSpace(strings.TrimPrefix(label, ":"))
	label = strings.TrimSpace(strings.TrimPrefix(label, "-"))
	if label == "" {
		if fallback != "" {
			return fallback
		}
		return "Variant"
	}
	return label
}
