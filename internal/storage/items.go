package storage

import (
	"database/sql"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

const itemColumns = "id, name, type, quality, rarity, description, d2_version"

func scanItem(row interface{ Scan(...interface{}) error }) (models.Item, error) {
	var item models.Item
	err := row.Scan(&item.ID, &item.Name, &item.Type, &item.Quality,
		&item.Rarity, &item.Description, &item.D2Version)
	return item, err
}

// AllItems returns the entire catalog.
func (s *Store) AllItems() ([]models.Item, error) {
	rows, err := s.db.Query(`SELECT ` + itemColumns + ` FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ItemByID returns one item, or nil when it does not exist.
func (s *Store) ItemByID(id int64) (*models.Item, error) {
	item, err := scanItem(s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ItemsByQuality returns items whose quality matches, ignoring case.
// ItemByName returns the first item with an exact name, or nil. Used by the
// seeder to keep reruns idempotent.
func (s *Store) ItemByName(name string) (*models.Item, error) {
	item, err := scanItem(s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE name = ? ORDER BY id LIMIT 1`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ItemsByQuality(quality string) ([]models.Item, error) {
	rows, err := s.db.Query(`
		SELECT `+itemColumns+` FROM items WHERE quality = ? COLLATE NOCASE ORDER BY id
	`, quality)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateItem inserts a new catalog item and fills in its id.
func (s *Store) CreateItem(item *models.Item) error {
	res, err := s.db.Exec(`
		INSERT INTO items (name, type, quality, rarity, description, d2_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.Name, item.Type, item.Quality, item.Rarity, item.Description, item.D2Version)
	if err != nil {
		return err
	}
	item.ID, err = res.LastInsertId()
	return err
}

// UpdateItem overwrites an existing catalog item.
func (s *Store) UpdateItem(item *models.Item) error {
	_, err := s.db.Exec(`
		UPDATE items SET name = ?, type = ?, quality = ?, rarity = ?, description = ?, d2_version = ?
		WHERE id = ?
	`, item.Name, item.Type, item.Quality, item.Rarity, item.Description, item.D2Version, item.ID)
	return err
}

// DeleteItem removes an item; properties, sources, notes and found records
// cascade.
func (s *Store) DeleteItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	return err
}

// --- Item properties ---

// AllItemProperties returns every property row in the catalog.
func (s *Store) AllItemProperties() ([]models.ItemProperty, error) {
	rows, err := s.db.Query(`
		SELECT id, item_id, property_name, property_value FROM item_properties ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.ItemProperty
	for rows.Next() {
		var p models.ItemProperty
		if err := rows.Scan(&p.ID, &p.ItemID, &p.PropertyName, &p.PropertyValue); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// PropertiesByItemID returns the properties attached to one item.
func (s *Store) PropertiesByItemID(itemID int64) ([]models.ItemProperty, error) {
	rows, err := s.db.Query(`
		SELECT id, item_id, property_name, property_value
		FROM item_properties WHERE item_id = ? ORDER BY id
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []models.ItemProperty
	for rows.Next() {
		var p models.ItemProperty
		if err := rows.Scan(&p.ID, &p.ItemID, &p.PropertyName, &p.PropertyValue); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// PropertyByID returns one property, or nil when it does not exist.
func (s *Store) PropertyByID(id int64) (*models.ItemProperty, error) {
	var p models.ItemProperty
	err := s.db.QueryRow(`
		SELECT id, item_id, property_name, property_value FROM item_properties WHERE id = ?
	`, id).Scan(&p.ID, &p.ItemID, &p.PropertyName, &p.PropertyValue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProperty inserts a property row and fills in its id.
func (s *Store) CreateProperty(p *models.ItemProperty) error {
	res, err := s.db.Exec(`
		INSERT INTO item_properties (item_id, property_name, property_value) VALUES (?, ?, ?)
	`, p.ItemID, p.PropertyName, p.PropertyValue)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// UpdateProperty overwrites an existing property row.
func (s *Store) UpdateProperty(p *models.ItemProperty) error {
	_, err := s.db.Exec(`
		UPDATE item_properties SET item_id = ?, property_name = ?, property_value = ? WHERE id = ?
	`, p.ItemID, p.PropertyName, p.PropertyValue, p.ID)
	return err
}

// DeleteProperty removes a property row.
func (s *Store) DeleteProperty(id int64) error {
	_, err := s.db.Exec(`DELETE FROM item_properties WHERE id = ?`, id)
	return err
}

// --- Item sources ---

// AllSources returns every source row.
func (s *Store) AllSources() ([]models.ItemSource, error) {
	return s.querySources(`SELECT id, item_id, source_type, source_name FROM item_sources ORDER BY id`)
}

// SourcesByItemID returns the sources attached to one item.
func (s *Store) SourcesByItemID(itemID int64) ([]models.ItemSource, error) {
	return s.querySources(`
		SELECT id, item_id, source_type, source_name FROM item_sources WHERE item_id = ? ORDER BY id
	`, itemID)
}

func (s *Store) querySources(query string, args ...interface{}) ([]models.ItemSource, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.ItemSource
	for rows.Next() {
		var src models.ItemSource
		if err := rows.Scan(&src.ID, &src.ItemID, &src.SourceType, &src.SourceName); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// SourceByID returns one source, or nil when it does not exist.
func (s *Store) SourceByID(id int64) (*models.ItemSource, error) {
	var src models.ItemSource
	err := s.db.QueryRow(`
		SELECT id, item_id, source_type, source_name FROM item_sources WHERE id = ?
	`, id).Scan(&src.ID, &src.ItemID, &src.SourceType, &src.SourceName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &src, nil
}

// CreateSource inserts a source row and fills in its id.
func (s *Store) CreateSource(src *models.ItemSource) error {
	res, err := s.db.Exec(`
		INSERT INTO item_sources (item_id, source_type, source_name) VALUES (?, ?, ?)
	`, src.ItemID, src.SourceType, src.SourceName)
	if err != nil {
		return err
	}
	src.ID, err = res.LastInsertId()
	return err
}

// UpdateSource overwrites an existing source row.
func (s *Store) UpdateSource(src *models.ItemSource) error {
	_, err := s.db.Exec(`
		UPDATE item_sources SET item_id = ?, source_type = ?, source_name = ? WHERE id = ?
	`, src.ItemID, src.SourceType, src.SourceName, src.ID)
	return err
}

// DeleteSource removes a source row.
func (s *Store) DeleteSource(id int64) error {
	_, err := s.db.Exec(`DELETE FROM item_sources WHERE id = ?`, id)
	return err
}

// --- Item notes ---

// NotesByItemID returns an item's notes, newest first.
func (s *Store) NotesByItemID(itemID int64) ([]models.ItemNote, error) {
	rows, err := s.db.Query(`
		SELECT id, item_id, author_name, body, created_at
		FROM item_notes WHERE item_id = ? ORDER BY created_at DESC, id DESC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.ItemNote
	for rows.Next() {
		var n models.ItemNote
		if err := rows.Scan(&n.ID, &n.ItemID, &n.AuthorName, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// CreateNote inserts a note and fills in its id.
func (s *Store) CreateNote(n *models.ItemNote) error {
	res, err := s.db.Exec(`
		INSERT INTO item_notes (item_id, author_name, body, created_at) VALUES (?, ?, ?, ?)
	`, n.ItemID, n.AuthorName, n.Body, n.CreatedAt)
	if err != nil {
		return err
	}
	n.ID, err = res.LastInsertId()
	return err
}
