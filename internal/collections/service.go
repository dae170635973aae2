package collections

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

// Store is the slice of the persistence layer the collections engine reads
// from. *storage.Store satisfies it.
type Store interface {
	AllItems() ([]models.Item, error)
	AllItemProperties() ([]models.ItemProperty, error)
	ItemsByQuality(quality string) ([]models.Item, error)
	FoundItemIDs(userID *int64) (map[int64]struct{}, error)
}

// Service derives set and runeword completion summaries from the item
// catalog and a user's found records. All computation is read-only and
// happens in memory over a handful of bulk reads.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetCollections builds both aggregate views. When userID is nil an item
// counts as found if any user has found it.
func (s *Service) GetCollections(userID *int64) (models.CollectionsResponse, error) {
	var resp models.CollectionsResponse

	foundItemIDs, err := s.store.FoundItemIDs(userID)
	if err != nil {
		return resp, fmt.Errorf("resolve found items: %w", err)
	}

	properties, err := s.store.AllItemProperties()
	if err != nil {
		return resp, fmt.Errorf("load item properties: %w", err)
	}

	items, err := s.store.AllItems()
	if err != nil {
		return resp, fmt.Errorf("load items: %w", err)
	}
	itemsByID := make(map[int64]models.Item, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	sets := buildSetCollections(foundItemIDs, properties, itemsByID)

	runewords, err := s.buildRunewordCollections(foundItemIDs, properties)
	if err != nil {
		return resp, err
	}

	resp.Sets = sets
	resp.Runewords = runewords
	return resp, nil
}

// buildSetCollections groups "Set Name" properties into per-set membership
// lists. The grouping key is the literal property value (case-sensitive),
// while the property name match is case-insensitive; that asymmetry is
// load-bearing and must not be normalized away.
func buildSetCollections(
	foundItemIDs map[int64]struct{},
	properties []models.ItemProperty,
	itemsByID map[int64]models.Item,
) []models.CollectionSummary {
	setOrder := make([]string, 0)
	memberIDs := make(map[string][]int64)

	for _, prop := range properties {
		if !hasText(prop.PropertyName) || !hasText(prop.PropertyValue) {
			continue
		}
		if strings.ToLower(prop.PropertyName) != "set name" {
			continue
		}
		setName := prop.PropertyValue
		if _, seen := memberIDs[setName]; !seen {
			setOrder = append(setOrder, setName)
		}
		memberIDs[setName] = append(memberIDs[setName], prop.ItemID)
	}

	summaries := make([]models.CollectionSummary, 0, len(setOrder))
	for _, setName := range setOrder {
		items := make([]models.CollectionItem, 0, len(memberIDs[setName]))
		seen := make(map[int64]struct{})
		for _, itemID := range memberIDs[setName] {
			if _, dup := seen[itemID]; dup {
				continue
			}
			item, ok := itemsByID[itemID]
			if !ok || item.ID == 0 {
				continue
			}
			seen[itemID] = struct{}{}
			items = append(items, toCollectionItem(item, foundItemIDs))
		}

		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})

		foundCount := 0
		for _, item := range items {
			if item.Found {
				foundCount++
			}
		}

		summaries = append(summaries, models.CollectionSummary{
			ID:          Slugify(setName),
			Name:        setName,
			Type:        models.CollectionTypeSet,
			Description: nil,
			TotalItems:  len(items),
			FoundItems:  foundCount,
			Items:       items,
		})
	}

	return summaries
}

func (s *Service) buildRunewordCollections(
	foundItemIDs map[int64]struct{},
	properties []models.ItemProperty,
) ([]models.CollectionSummary, error) {
	runewords, err := s.store.ItemsByQuality("Runeword")
	if err != nil {
		return nil, fmt.Errorf("load runewords: %w", err)
	}
	if len(runewords) == 0 {
		return []models.CollectionSummary{}, nil
	}

	runes, err := s.store.ItemsByQuality("Rune")
	if err != nil {
		return nil, fmt.Errorf("load runes: %w", err)
	}
	runesByName := make(map[string]models.Item, len(runes))
	for _, runeItem := range runes {
		if !hasText(runeItem.Name) {
			continue
		}
		key := strings.ToLower(runeItem.Name)
		if _, taken := runesByName[key]; !taken {
			runesByName[key] = runeItem
		}
	}

	propsByItemID := make(map[int64][]models.ItemProperty)
	for _, prop := range properties {
		if prop.ItemID == 0 {
			continue
		}
		propsByItemID[prop.ItemID] = append(propsByItemID[prop.ItemID], prop)
	}

	sort.SliceStable(runewords, func(i, j int) bool {
		return strings.ToLower(safeName(runewords[i].Name)) < strings.ToLower(safeName(runewords[j].Name))
	})

	summaries := make([]models.CollectionSummary, 0, len(runewords))
	for _, runeword := range runewords {
		summaries = append(summaries, toRunewordCollection(
			runeword, foundItemIDs, runesByName, propsByItemID[runeword.ID]))
	}
	return summaries, nil
}

func toRunewordCollection(
	runeword models.Item,
	foundItemIDs map[int64]struct{},
	runesByName map[string]models.Item,
	runewordProps []models.ItemProperty,
) models.CollectionSummary {
	metadata := parseRunewordMetadata(runeword, runewordProps)

	checklist := make([]models.CollectionItem, 0, len(metadata.Runes))
	foundCount := 0
	for index, runeName := range metadata.Runes {
		var itemID *int64
		runeFound := false
		if runeItem, ok := runesByName[strings.ToLower(runeName)]; ok {
			id := runeItem.ID
			itemID = &id
			_, runeFound = foundItemIDs[runeItem.ID]
		}
		if runeFound {
			foundCount++
		}
		checklist = append(checklist, models.CollectionItem{
			ItemID: itemID,
			Name:   fmt.Sprintf("%d. %s", index+1, runeName),
			Slot:   optText("Rune"),
			Found:  runeFound,
		})
	}

	// No parseable rune list: the checklist degrades to a single
	// crafted/not-crafted entry for the runeword itself.
	if len(checklist) == 0 {
		id := runeword.ID
		_, crafted := foundItemIDs[runeword.ID]
		checklist = append(checklist, models.CollectionItem{
			ItemID: &id,
			Name:   safeName(runeword.Name),
			Slot:   optText(metadata.Bases),
			Found:  crafted,
		})
		foundCount = 0
		if crafted {
			foundCount = 1
		}
	}

	return models.CollectionSummary{
		ID:          Slugify(runeword.Name),
		Name:        safeName(runeword.Name),
		Type:        models.CollectionTypeRuneword,
		Description: optText(metadata.Description()),
		TotalItems:  len(checklist),
		FoundItems:  foundCount,
		Items:       checklist,
	}
}

func toCollectionItem(item models.Item, foundItemIDs map[int64]struct{}) models.CollectionItem {
	id := item.ID
	_, found := foundItemIDs[item.ID]
	return models.CollectionItem{
		ItemID: &id,
		Name:   item.Name,
		Slot:   optText(item.Type),
		Found:  found,
	}
}

func safeName(name string) string {
	if hasText(name) {
		return name
	}
	return "Runeword"
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// optText returns nil for blank strings so they serialize as JSON null.
func optText(s string) *string {
	if !hasText(s) {
		return nil
	}
	return &s
}
