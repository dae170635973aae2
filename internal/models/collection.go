package models

// Collection kinds.
const (
	CollectionTypeSet      = "set"
	CollectionTypeRuneword = "runeword"
)

// CollectionItem is one checklist row inside a collection summary: either a
// resolved set member, a required rune, or the runeword item itself when its
// rune list could not be parsed. ItemID is nil when the row does not resolve
// to a catalog item.
type CollectionItem struct {
	ItemID *int64  `json:"itemId"`
	Name   string  `json:"name"`
	Slot   *string `json:"slot"`
	Found  bool    `json:"found"`
}

// CollectionSummary is the derived completion state of one set or runeword.
type CollectionSummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Description *string          `json:"description"`
	TotalItems  int              `json:"totalItems"`
	FoundItems  int              `json:"foundItems"`
	Items       []CollectionItem `json:"items"`
}

// CollectionsResponse carries both aggregate views in one payload.
type CollectionsResponse struct {
	Sets      []CollectionSummary `json:"sets"`
	Runewords []CollectionSummary `json:"runewords"`
}
