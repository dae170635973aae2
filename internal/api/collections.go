package api

import "net/http"

// handleGetCollections returns the set and runeword completion summaries,
// optionally scoped to one user via ?userId=.
func (s *Server) handleGetCollections(w http.ResponseWriter, r *http.Request) {
	userID, err := optionalIDQuery(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	resp, err := s.collections.GetCollections(userID)
	if err != nil {
		s.log.Error("build collections", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to build collections")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
