package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type connectorActionRequest struct {
	Action string `json:"action"`
}

// handleGetConnectors returns the data connectors, seeding the defaults on
// first access.
func (s *Server) handleGetConnectors(w http.ResponseWriter, r *http.Request) {
	if err := s.store.BootstrapConnectors(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to bootstrap connectors")
		return
	}

	connectors, err := s.store.AllConnectors()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch connectors")
		return
	}
	if connectors == nil {
		connectors = []models.DataConnector{}
	}
	respondJSON(w, http.StatusOK, connectors)
}

// handleConnectorAction runs a connector action, updating the connector's
// status card and recording a sync job.
func (s *Server) handleConnectorAction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.BootstrapConnectors(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to bootstrap connectors")
		return
	}

	slug := chi.URLParam(r, "connectorID")
	connector, err := s.store.ConnectorBySlug(slug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch connector")
		return
	}
	if connector == nil {
		respondError(w, http.StatusNotFound, "Connector not found")
		return
	}

	var req connectorActionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var startMessage, doneMessage string
	switch strings.ToLower(req.Action) {
	case "manage":
		startMessage, doneMessage = "Reconciling connection", "Connection refreshed successfully"
		connector.StatusVariant = models.StatusSuccess
		connector.StatusMessage = "Connected"
		connector.LastSyncSummary = "Synced just now"
		connector.NextSyncSummary = "Autosync in 15 minutes"
	case "schedule":
		startMessage, doneMessage = "Updating export schedule", "Nightly export scheduled"
		connector.StatusVariant = models.StatusInfo
		connector.StatusMessage = "Scheduled"
		connector.LastSyncSummary = "Next run at 02:00 local time"
		connector.NextSyncSummary = "Nightly backups confirmed"
	case "import":
		startMessage, doneMessage = "Preparing import", "Importer launched"
		connector.StatusVariant = models.StatusWarning
		connector.StatusMessage = "Awaiting file"
		connector.LastSyncSummary = "Last merged 3 sessions ago"
		connector.NextSyncSummary = "Ready for manual import"
	case "sync":
		startMessage, doneMessage = "Manual sync triggered", "Manual sync completed"
		connector.StatusVariant = models.StatusInfo
		connector.StatusMessage = "Syncing"
		connector.LastSyncSummary = "Sync running now"
		connector.NextSyncSummary = "Next autosync shortly"
	default:
		respondError(w, http.StatusBadRequest, "Unsupported connector action")
		return
	}

	job, err := s.store.StartSyncJob(models.SyncJobConnectorSync, connector.Slug, startMessage)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start sync job")
		return
	}

	connector.UpdatedAt = time.Now()
	if err := s.store.UpdateConnector(connector); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update connector")
		return
	}
	if err := s.completeJob(job, doneMessage); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record sync job")
		return
	}

	s.log.Info("connector action", "connector", connector.Slug, "action", strings.ToLower(req.Action))
	respondJSON(w, http.StatusOK, job)
}
