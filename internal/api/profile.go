package api

import (
	"net/http"
	"strings"
	"time"
)

type profileRequest struct {
	DisplayName string `json:"displayName"`
	Tagline     string `json:"tagline"`
	Email       string `json:"email"`
	Timezone    string `json:"timezone"`
}

type preferencesRequest struct {
	ShareProfile          bool   `json:"shareProfile"`
	SessionPresence       bool   `json:"sessionPresence"`
	NotifyFinds           bool   `json:"notifyFinds"`
	ThemeMode             string `json:"themeMode"`
	AccentColor           string `json:"accentColor"`
	EnableTooltipContrast bool   `json:"enableTooltipContrast"`
	ReduceMotion          bool   `json:"reduceMotion"`
}

// handleGetProfile returns the local profile, creating placeholder values on
// first access.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.EnsureProfile()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile updates the local profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" || strings.TrimSpace(req.Email) == "" {
		respondError(w, http.StatusBadRequest, "displayName and email are required")
		return
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil || req.Timezone == "" {
		respondError(w, http.StatusBadRequest, "Invalid timezone supplied")
		return
	}

	profile, err := s.store.EnsureProfile()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	profile.DisplayName = strings.TrimSpace(req.DisplayName)
	profile.Tagline = req.Tagline
	profile.Email = strings.ToLower(req.Email)
	profile.Timezone = req.Timezone
	profile.UpdatedAt = time.Now()

	if err := s.store.UpdateProfile(profile); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// handleGetPreferences returns sync and presentation toggles, creating
// defaults on first access.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	preferences, err := s.store.EnsurePreferences()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}
	respondJSON(w, http.StatusOK, preferences)
}

// handleUpdatePreferences overwrites the toggles and bumps broadcastVersion
// so connected clients notice the change.
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	preferences, err := s.store.EnsurePreferences()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load preferences")
		return
	}

	preferences.ShareProfile = req.ShareProfile
	preferences.SessionPresence = req.SessionPresence
	preferences.NotifyFinds = req.NotifyFinds
	if req.ThemeMode != "" {
		preferences.ThemeMode = req.ThemeMode
	}
	if req.AccentColor != "" {
		preferences.AccentColor = req.AccentColor
	}
	preferences.EnableTooltipContrast = req.EnableTooltipContrast
	preferences.ReduceMotion = req.ReduceMotion
	preferences.UpdatedAt = time.Now()
	preferences.BroadcastVersion++

	if err := s.store.UpdatePreferences(preferences); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}
	respondJSON(w, http.StatusOK, preferences)
}
