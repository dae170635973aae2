package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/patrickdoane/grail-tracker-redux/internal/auth"
	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// handleRegister creates an account and issues a token for it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	if existing, err := s.store.UserByUsername(req.Username); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	} else if existing != nil {
		respondError(w, http.StatusConflict, "Username already taken")
		return
	}
	if existing, err := s.store.UserByEmail(req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	} else if existing != nil {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(&user); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.log.Info("account registered", "username", user.Username)
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// handleLogin checks credentials and issues a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.UserByUsernameOrEmail(strings.TrimSpace(req.UsernameOrEmail))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

// handleMe returns the account behind the bearer token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
