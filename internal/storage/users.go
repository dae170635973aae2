package storage

import (
	"database/sql"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

const userColumns = "id, username, email, password_hash, role, created_at"

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// AllUsers returns every account.
func (s *Store) AllUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserByID returns one account, or nil when it does not exist.
func (s *Store) UserByID(id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByUsername looks an account up by its exact username.
func (s *Store) UserByUsername(username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByEmail looks an account up by its exact email address.
func (s *Store) UserByEmail(email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByUsernameOrEmail looks an account up by either handle.
func (s *Store) UserByUsernameOrEmail(usernameOrEmail string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?
	`, usernameOrEmail, usernameOrEmail))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an account and fills in its id.
func (s *Store) CreateUser(u *models.User) error {
	res, err := s.db.Exec(`
		INSERT INTO users (username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

// UpdateUser overwrites an existing account.
func (s *Store) UpdateUser(u *models.User) error {
	_, err := s.db.Exec(`
		UPDATE users SET username = ?, email = ?, password_hash = ?, role = ? WHERE id = ?
	`, u.Username, u.Email, u.PasswordHash, u.Role, u.ID)
	return err
}

// DeleteUser removes an account; its found records cascade.
func (s *Store) DeleteUser(id int64) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	return err
}

// --- Found records ---

const userItemColumns = "id, user_id, item_id, found_at, notes"

func scanUserItem(row interface{ Scan(...interface{}) error }) (models.UserItem, error) {
	var ui models.UserItem
	err := row.Scan(&ui.ID, &ui.UserID, &ui.ItemID, &ui.FoundAt, &ui.Notes)
	return ui, err
}

// UserItems returns found records, optionally filtered by user and/or item.
func (s *Store) UserItems(userID, itemID *int64) ([]models.UserItem, error) {
	query := `SELECT ` + userItemColumns + ` FROM user_items`
	var conds []string
	var args []interface{}
	if userID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, *userID)
	}
	if itemID != nil {
		conds = append(conds, "item_id = ?")
		args = append(args, *itemID)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userItems []models.UserItem
	for rows.Next() {
		ui, err := scanUserItem(rows)
		if err != nil {
			return nil, err
		}
		userItems = append(userItems, ui)
	}
	return userItems, rows.Err()
}

// UserItemByID returns one found record, or nil when it does not exist.
func (s *Store) UserItemByID(id int64) (*models.UserItem, error) {
	ui, err := scanUserItem(s.db.QueryRow(`SELECT `+userItemColumns+` FROM user_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ui, nil
}

// CreateUserItem inserts a found record and fills in its id.
func (s *Store) CreateUserItem(ui *models.UserItem) error {
	res, err := s.db.Exec(`
		INSERT INTO user_items (user_id, item_id, found_at, notes) VALUES (?, ?, ?, ?)
	`, ui.UserID, ui.ItemID, ui.FoundAt, ui.Notes)
	if err != nil {
		return err
	}
	ui.ID, err = res.LastInsertId()
	return err
}

// UpdateUserItem overwrites an existing found record.
func (s *Store) UpdateUserItem(ui *models.UserItem) error {
	_, err := s.db.Exec(`
		UPDATE user_items SET user_id = ?, item_id = ?, found_at = ?, notes = ? WHERE id = ?
	`, ui.UserID, ui.ItemID, ui.FoundAt, ui.Notes, ui.ID)
	return err
}

// DeleteUserItem removes a found record.
func (s *Store) DeleteUserItem(id int64) error {
	_, err := s.db.Exec(`DELETE FROM user_items WHERE id = ?`, id)
	return err
}

// FoundItemIDs returns the distinct item ids marked found, for one user or
// for everyone when userID is nil.
func (s *Store) FoundItemIDs(userID *int64) (map[int64]struct{}, error) {
	query := `SELECT DISTINCT item_id FROM user_items`
	var args []interface{}
	if userID != nil {
		query += ` WHERE user_id = ?`
		args = append(args, *userID)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int64]struct{})
	for rows.Next() {
		var itemID int64
		if err := rows.Scan(&itemID); err != nil {
			return nil, err
		}
		found[itemID] = struct{}{}
	}
	return found, rows.Err()
}
