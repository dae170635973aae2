package api

import (
	"net/http"
	"strings"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type sourceRequest struct {
	ItemID     int64  `json:"itemId"`
	SourceType string `json:"sourceType"`
	SourceName string `json:"sourceName"`
}

// handleGetSources returns drop sources, optionally filtered by ?itemId=.
func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	itemID, err := optionalIDQuery(r, "itemId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid itemId")
		return
	}

	var sources []models.ItemSource
	if itemID != nil {
		sources, err = s.store.SourcesByItemID(*itemID)
	} else {
		sources, err = s.store.AllSources()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sources")
		return
	}
	if sources == nil {
		sources = []models.ItemSource{}
	}
	respondJSON(w, http.StatusOK, sources)
}

// handleGetSource returns a single drop source by ID
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid source id")
		return
	}

	source, err := s.store.SourceByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch source")
		return
	}
	if source == nil {
		respondError(w, http.StatusNotFound, "Source not found")
		return
	}
	respondJSON(w, http.StatusOK, source)
}

// handleCreateSource attaches a drop source to an item
func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID <= 0 || strings.TrimSpace(req.SourceName) == "" {
		respondError(w, http.StatusBadRequest, "itemId and sourceName are required")
		return
	}

	item, err := s.store.ItemByID(req.ItemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	source := models.ItemSource{
		ItemID:     req.ItemID,
		SourceType: req.SourceType,
		SourceName: req.SourceName,
	}
	if err := s.store.CreateSource(&source); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create source")
		return
	}
	respondJSON(w, http.StatusCreated, source)
}

// handleUpdateSource updates an existing drop source
func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid source id")
		return
	}

	existing, err := s.store.SourceByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch source")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Source not found")
		return
	}

	var req sourceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID <= 0 || strings.TrimSpace(req.SourceName) == "" {
		respondError(w, http.StatusBadRequest, "itemId and sourceName are required")
		return
	}

	source := models.ItemSource{
		ID:         id,
		ItemID:     req.ItemID,
		SourceType: req.SourceType,
		SourceName: req.SourceName,
	}
	if err := s.store.UpdateSource(&source); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update source")
		return
	}
	respondJSON(w, http.StatusOK, source)
}

// handleDeleteSource deletes a drop source
func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid source id")
		return
	}

	existing, err := s.store.SourceByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch source")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Source not found")
		return
	}

	if err := s.store.DeleteSource(id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete source")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
