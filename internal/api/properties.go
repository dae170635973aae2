package api

import (
	"net/http"
	"strings"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type propertyRequest struct {
	ItemID        int64  `json:"itemId"`
	PropertyName  string `json:"propertyName"`
	PropertyValue string `json:"propertyValue"`
}

// handleGetProperties returns item properties, optionally filtered by
// ?itemId=.
func (s *Server) handleGetProperties(w http.ResponseWriter, r *http.Request) {
	itemID, err := optionalIDQuery(r, "itemId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid itemId")
		return
	}

	var properties []models.ItemProperty
	if itemID != nil {
		properties, err = s.store.PropertiesByItemID(*itemID)
	} else {
		properties, err = s.store.AllItemProperties()
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch properties")
		return
	}
	if properties == nil {
		properties = []models.ItemProperty{}
	}
	respondJSON(w, http.StatusOK, properties)
}

// handleGetProperty returns a single property by ID
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	property, err := s.store.PropertyByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch property")
		return
	}
	if property == nil {
		respondError(w, http.StatusNotFound, "Property not found")
		return
	}
	respondJSON(w, http.StatusOK, property)
}

// handleCreateProperty attaches a property to an item
func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID <= 0 || strings.TrimSpace(req.PropertyName) == "" {
		respondError(w, http.StatusBadRequest, "itemId and propertyName are required")
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

	property := models.ItemProperty{
		ItemID:        req.ItemID,
		PropertyName:  req.PropertyName,
		PropertyValue: req.PropertyValue,
	}
	if err := s.store.CreateProperty(&property); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create property")
		return
	}
	respondJSON(w, http.StatusCreated, property)
}

// handleUpdateProperty updates an existing property
func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	existing, err := s.store.PropertyByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch property")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Property not found")
		return
	}

	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID <= 0 || strings.TrimSpace(req.PropertyName) == "" {
		respondError(w, http.StatusBadRequest, "itemId and propertyName are required")
		return
	}

	property := models.ItemProperty{
		ID:            id,
		ItemID:        req.ItemID,
		PropertyName:  req.PropertyName,
		PropertyValue: req.PropertyValue,
	}
	if err := s.store.UpdateProperty(&property); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update property")
		return
	}
	respondJSON(w, http.StatusOK, property)
}

// handleDeleteProperty deletes a property
func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	existing, err := s.store.PropertyByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch property")
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Property not found")
		return
	}

	if err := s.store.DeleteProperty(id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
