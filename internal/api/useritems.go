package api

import (
	"net/http"
	"time"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type userItemRequest struct {
	UserID  int64      `json:"userId"`
	ItemID  int64      `json:"itemId"`
	FoundAt *time.Time `json:"foundAt"`
	Notes   string     `json:"notes"`
}

// handleGetUserItems returns found records, filtered by ?userId= and/or
// ?itemId=.
func (s *Server) handleGetUserItems(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalIDQuery(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid userId")
		return
	}
	itemID, err := optionalIDQuery(r, "itemId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid itemId")
		return
	}

	userItems, err := s.store.UserItems(userID, itemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user items")
		return
	}
	if userItems == nil {
		userItems = []models.UserItem{}
	}
	respondJSON(w, http.StatusOK, userItems)
}

// handleGetUserItem returns a single found record by ID
func (s *Server) handleGetUserItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user item id")
		return
	}

	userItem, err := s.store.UserItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user item")
		return
	}
	if userItem == nil {
		respondError(w, http.StatusNotFound, "User item not found")
		return
	}
	respondJSON(w, http.StatusOK, userItem)
}

// handleCreateUserItem marks an item found for a user
func (s *Server) handleCreateUserItem(w http.ResponseWriter, r *http.Request) {
	var req userItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if ok := s.checkUserAndItem(w, req.UserID, req.ItemID); !ok {
		return
	}

	foundAt := time.Now()
	if req.FoundAt != nil {
		foundAt = *req.FoundAt
	}

	userItem := models.UserItem{
		UserID:  req.UserID,
		ItemID:  req.ItemID,
		FoundAt: foundAt,
		Notes:   req.Notes,
	}
	if err := s.store.CreateUserItem(&userItem); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create user item")
		return
	}
	respondJSON(w, http.StatusCreated, userItem)
}

// handleUpdateUserItem updates a found record; omitting foundAt keeps the
// original timestamp.
func (s *Server) handleUpdateUserItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user item id")
		return
	}

	existing, err := s.store.UserItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user item")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "User item not found")
		return
	}

	var req userItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if ok := s.checkUserAndItem(w, req.UserID, req.ItemID); !ok {
		return
	}

	existing.UserID = req.UserID
	existing.ItemID = req.ItemID
	if req.FoundAt != nil {
		existing.FoundAt = *req.FoundAt
	}
	existing.Notes = req.Notes

	if err := s.store.UpdateUserItem(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update user item")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

// handleDeleteUserItem removes a found record
func (s *Server) handleDeleteUserItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user item id")
		return
	}

	existing, err := s.store.UserItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user item")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "User item not found")
		return
	}

	if err := s.store.DeleteUserItem(id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete user item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkUserAndItem writes an error response and returns false unless both the
// user and the item exist.
func (s *Server) checkUserAndItem(w http.ResponseWriter, userID, itemID int64) bool {
	if userID <= 0 || itemID <= 0 {
		respondError(w, http.StatusBadRequest, "userId and itemId are required")
		return false
	}

	user, err := s.store.UserByID(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user")
		return false
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return false
	}

	item, err := s.store.ItemByID(itemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return false
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return false
	}

	return true
}
