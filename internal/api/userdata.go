package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

// maxImportBytes caps uploaded import payloads at 8 MiB.
const maxImportBytes = 8 << 20

type importResponse struct {
	Job               models.SyncJob `json:"job"`
	ConflictsDetected bool           `json:"conflictsDetected"`
}

type exportResponse struct {
	Job         models.SyncJob `json:"job"`
	DownloadURL string         `json:"downloadUrl"`
}

// handleImport accepts a multipart upload and records an import job. Payloads
// mentioning "conflict" fail the job so the client can surface a retry.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		respondError(w, http.StatusBadRequest, "No import file provided")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No import file provided")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxImportBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unable to read import file")
		return
	}
	content := string(raw)
	if strings.TrimSpace(content) == "" {
		respondError(w, http.StatusBadRequest, "No import file provided")
		return
	}

	job, err := s.store.StartSyncJob(models.SyncJobImport, "", "Parsing import payload")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start import")
		return
	}

	conflicts := strings.Contains(strings.ToLower(content), "conflict")
	if conflicts {
		err = s.failJob(job, "Conflicts detected. Review details before retrying.")
	} else {
		err = s.completeJob(job, fmt.Sprintf("Imported %d records", countRecords(content)))
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record import")
		return
	}

	s.log.Info("import finished", "job", job.ID, "conflicts", conflicts)
	respondJSON(w, http.StatusOK, importResponse{Job: *job, ConflictsDetected: conflicts})
}

// handleRetryImport starts a fresh import job carrying the previous job's
// retry count forward.
func (s *Server) handleRetryImport(w http.ResponseWriter, r *http.Request) {
	jobID, ok := idParam(r, "jobID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	previous, err := s.store.SyncJobByID(jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}
	if previous == nil {
		respondError(w, http.StatusNotFound, "Import job not found")
		return
	}

	job, err := s.store.StartSyncJob(models.SyncJobImport, previous.ConnectorSlug, "Retrying import")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start import")
		return
	}
	job.RetryCount = previous.RetryCount + 1
	if err := s.completeJob(job, "Import retried successfully"); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record import")
		return
	}

	respondJSON(w, http.StatusOK, importResponse{Job: *job, ConflictsDetected: false})
}

// handleStartExport records a completed export job and hands back its
// download URL.
func (s *Server) handleStartExport(w http.ResponseWriter, r *http.Request) {
	format := exportFormat(r.URL.Query().Get("format"))

	job, err := s.store.StartSyncJob(models.SyncJobExport, "", "Generating export")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to start export")
		return
	}
	if err := s.completeJob(job, fmt.Sprintf("Export ready (%s)", format)); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to record export")
		return
	}

	respondJSON(w, http.StatusOK, exportResponse{
		Job:         *job,
		DownloadURL: fmt.Sprintf("/api/user-data/export/%d/download?format=%s", job.ID, format),
	})
}

// handleDownloadExport streams the found-item snapshot behind a completed
// export job as CSV or JSON.
func (s *Server) handleDownloadExport(w http.ResponseWriter, r *http.Request) {
	jobID, ok := idParam(r, "jobID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	job, err := s.store.SyncJobByID(jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "Export job not found")
		return
	}
	if job.Status != models.SyncStatusCompleted {
		respondError(w, http.StatusBadRequest, "Export is still in progress")
		return
	}

	rows, err := s.exportRows()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	format := exportFormat(r.URL.Query().Get("format"))
	filename := fmt.Sprintf("grail-export-%s.%s", uuid.NewString(), format)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Type", "application/octet-stream")

	if format == "json" {
		json.NewEncoder(w).Encode(map[string]interface{}{"items": rows})
		return
	}

	cw := csv.NewWriter(w)
	cw.Write([]string{"type", "name", "rarity", "notes"})
	for _, row := range rows {
		cw.Write([]string{row.Type, row.Name, row.Rarity, row.Notes})
	}
	cw.Flush()
}

// handleGetJob returns one sync job by ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := idParam(r, "jobID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	job, err := s.store.SyncJobByID(jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}
	respondJSON(w, http.StatusOK, job)
}

type exportRow struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Notes  string `json:"notes,omitempty"`
}

// exportRows snapshots every found item across all users, one row per item.
func (s *Server) exportRows() ([]exportRow, error) {
	found, err := s.store.FoundItemIDs(nil)
	if err != nil {
		return nil, err
	}
	items, err := s.store.AllItems()
	if err != nil {
		return nil, err
	}
	userItems, err := s.store.UserItems(nil, nil)
	if err != nil {
		return nil, err
	}

	notesByItem := make(map[int64]string)
	for _, ui := range userItems {
		if _, seen := notesByItem[ui.ItemID]; !seen && ui.Notes != "" {
			notesByItem[ui.ItemID] = ui.Notes
		}
	}

	rows := []exportRow{}
	for _, item := range items {
		if _, ok := found[item.ID]; !ok {
			continue
		}
		rows = append(rows, exportRow{
			Type:   exportType(item.Quality),
			Name:   item.Name,
			Rarity: item.Rarity,
			Notes:  notesByItem[item.ID],
		})
	}
	return rows, nil
}

func exportType(quality string) string {
	switch strings.ToLower(quality) {
	case "rune":
		return "rune"
	case "runeword":
		return "runeword"
	default:
		return "item"
	}
}

func exportFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return "csv"
	}
	return format
}

func countRecords(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	if count < 1 {
		return 1
	}
	return count
}

// completeJob marks a job finished and persists it.
func (s *Server) completeJob(job *models.SyncJob, message string) error {
	job.Status = models.SyncStatusCompleted
	job.Progress = 100
	job.Message = message
	return s.store.UpdateSyncJob(job)
}

// failJob marks a job failed, counting the failure as a spent retry.
func (s *Server) failJob(job *models.SyncJob, message string) error {
	job.Status = models.SyncStatusFailed
	job.Progress = 100
	job.Message = message
	job.RetryCount++
	return s.store.UpdateSyncJob(job)
}
