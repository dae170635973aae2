package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrickdoane/grail-tracker-redux/internal/auth"
	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// handleGetUsers returns every account
func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.AllUsers()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// handleGetUser returns a single account by ID
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := s.store.UserByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleCreateUser creates an account with an explicit role
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		respondError(w, http.StatusBadRequest, "Password is required when creating a user")
		return
	}

	if conflict, err := s.handleUniqueness(w, req.Username, req.Email, 0); err != nil || conflict {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         roleOrDefault(req.Role),
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(&user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// handleUpdateUser updates an account; a blank password keeps the old one.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	existing, err := s.store.UserByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "username and email are required")
		return
	}

	if conflict, err := s.handleUniqueness(w, req.Username, req.Email, id); err != nil || conflict {
		return
	}

	existing.Username = req.Username
	existing.Email = req.Email
	if strings.TrimSpace(req.Password) != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		existing.PasswordHash = hash
	}
	if req.Role != "" {
		existing.Role = req.Role
	}

	if err := s.store.UpdateUser(existing); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

// handleDeleteUser deletes an account and its found records
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	existing, err := s.store.UserByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := s.store.DeleteUser(id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUniqueness writes a conflict or error response when username or email
// belongs to a different account. excludingID skips the account being edited.
func (s *Server) handleUniqueness(w http.ResponseWriter, username, email string, excludingID int64) (bool, error) {
	byName, err := s.store.UserByUsername(username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check username")
		return false, err
	}
	if byName != nil && byName.ID != excludingID {
		respondError(w, http.StatusConflict, fmt.Sprintf("Username '%s' already in use", username))
		return true, nil
	}

	byEmail, err := s.store.UserByEmail(email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check email")
		return false, err
	}
	if byEmail != nil && byEmail.ID != excludingID {
		respondError(w, http.StatusConflict, fmt.Sprintf("Email '%s' already in use", email))
		return true, nil
	}

	return false, nil
}

func roleOrDefault(role string) string {
	if role == "" {
		return models.RoleUser
	}
	return role
}
