package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type itemRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Quality     string `json:"quality"`
	Rarity      string `json:"rarity"`
	Description string `json:"description"`
	D2Version   string `json:"d2Version"`
}

// handleGetItems returns the whole catalog, optionally filtered by quality.
func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	var items []models.Item
	var err error

	if quality := r.URL.Query().Get("quality"); quality != "" {
		items, err = s.store.ItemsByQuality(quality)
	} else {
		items, err = s.store.AllItems()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

// handleGetItem returns a single item by ID
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	item, err := s.store.ItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// handleGetItemDetail returns an item with its properties, sources, derived
// variants, and notes.
func (s *Server) handleGetItemDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	item, err := s.store.ItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	properties, err := s.store.PropertiesByItemID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item properties")
		return
	}
	sources, err := s.store.SourcesByItemID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item sources")
		return
	}
	notes, err := s.store.NotesByItemID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item notes")
		return
	}

	detail := models.ItemDetail{
		Item:       *item,
		Properties: properties,
		Sources:    sources,
		Variants:   deriveVariants(*item, properties),
		Notes:      notes,
	}
	if detail.Properties == nil {
		detail.Properties = []models.ItemProperty{}
	}
	if detail.Sources == nil {
		detail.Sources = []models.ItemSource{}
	}
	if detail.Notes == nil {
		detail.Notes = []models.ItemNote{}
	}

	respondJSON(w, http.StatusOK, detail)
}

// handleCreateItem creates a new catalog item
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	item := models.Item{
		Name:        req.Name,
		Type:        req.Type,
		Quality:     req.Quality,
		Rarity:      req.Rarity,
		Description: req.Description,
		D2Version:   req.D2Version,
	}
	if err := s.store.CreateItem(&item); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// handleUpdateItem updates an existing catalog item
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	existing, err := s.store.ItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	item := models.Item{
		ID:          id,
		Name:        req.Name,
		Type:        req.Type,
		Quality:     req.Quality,
		Rarity:      req.Rarity,
		Description: req.Description,
		D2Version:   req.D2Version,
	}
	if err := s.store.UpdateItem(&item); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// handleDeleteItem deletes a catalog item
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	existing, err := s.store.ItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	if err := s.store.DeleteItem(id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type itemNoteRequest struct {
	AuthorName string `json:"authorName"`
	Body       string `json:"body"`
}

// handleGetItemNotes returns an item's notes, newest first
func (s *Server) handleGetItemNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	notes, err := s.store.NotesByItemID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch notes")
		return
	}
	if notes == nil {
		notes = []models.ItemNote{}
	}
	respondJSON(w, http.StatusOK, notes)
}

// handleCreateItemNote attaches a note to an item
func (s *Server) handleCreateItemNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	item, err := s.store.ItemByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch item")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Item not found")
		return
	}

	var req itemNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		respondError(w, http.StatusBadRequest, "body is required")
		return
	}

	note := models.ItemNote{
		ItemID:     id,
		AuthorName: req.AuthorName,
		Body:       req.Body,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateNote(&note); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}
