package models

import "time"

// Item represents one trackable catalog entry: a unique, a set piece, a rune
// or a runeword. Quality drives how the collections engine treats it.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Quality     string `json:"quality"`
	Rarity      string `json:"rarity"`
	Description string `json:"description"`
	D2Version   string `json:"d2Version"`
}

// ItemProperty is a free-form key/value annotation on an item. Besides plain
// display stats, a few well-known keys ("Set Name", "Runeword Bases",
// "Runeword Details", "Variant: ...") carry structured meaning.
type ItemProperty struct {
	ID            int64  `json:"id"`
	ItemID        int64  `json:"itemId"`
	PropertyName  string `json:"propertyName"`
	PropertyValue string `json:"propertyValue"`
}

// ItemSource records where an item can drop or be obtained.
type ItemSource struct {
	ID         int64  `json:"id"`
	ItemID     int64  `json:"itemId"`
	SourceType string `json:"sourceType"`
	SourceName string `json:"sourceName"`
}

// ItemNote is a community note attached to an item.
type ItemNote struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"itemId"`
	AuthorName string    `json:"authorName"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ItemVariant is derived from "Variant*" properties; it is never persisted.
type ItemVariant struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Attributes  []string `json:"attributes"`
}

// ItemDetail bundles an item with everything attached to it.
type ItemDetail struct {
	Item       Item           `json:"item"`
	Properties []ItemProperty `json:"properties"`
	Sources    []ItemSource   `json:"sources"`
	Variants   []ItemVariant  `json:"variants"`
	Notes      []ItemNote     `json:"notes"`
}
