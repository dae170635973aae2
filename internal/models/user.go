package models

import "time"

// User roles. Admins may manage the catalog; regular users track finds.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account that can mark items as found.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserItem is a found record: evidence that a user obtained an item.
type UserItem struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	ItemID  int64     `json:"itemId"`
	FoundAt time.Time `json:"foundAt"`
	Notes   string    `json:"notes"`
}
