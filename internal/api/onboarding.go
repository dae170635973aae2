package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

type onboardingTaskUpdateRequest struct {
	Completed bool `json:"completed"`
}

// handleGetOnboardingTasks returns the derived setup checklist.
func (s *Server) handleGetOnboardingTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.buildOnboardingTasks()
	if err != nil {
		s.log.Error("building onboarding tasks", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to build onboarding tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// handleUpdateOnboardingTask records a manual completion override and returns
// the refreshed task.
func (s *Server) handleUpdateOnboardingTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(chi.URLParam(r, "taskID"))
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req onboardingTaskUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.store.UpsertTaskState(taskID, req.Completed); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	tasks, err := s.buildOnboardingTasks()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build onboarding tasks")
		return
	}
	for _, task := range tasks.Tasks {
		if task.ID == taskID {
			respondJSON(w, http.StatusOK, task)
			return
		}
	}
	respondError(w, http.StatusNotFound, "Task not found")
}

// buildOnboardingTasks derives the checklist from live signals, then applies
// any manual overrides. Preferences that were never saved count as an
// unreviewed sync setup.
func (s *Server) buildOnboardingTasks() (models.OnboardingTasks, error) {
	profile, err := s.store.EnsureProfile()
	if err != nil {
		return models.OnboardingTasks{}, err
	}
	preferences, err := s.store.PreferencesByProfileID(profile.ID)
	if err != nil {
		return models.OnboardingTasks{}, err
	}
	overrides, err := s.store.TaskStates()
	if err != nil {
		return models.OnboardingTasks{}, err
	}

	profileBasicsComplete := strings.TrimSpace(profile.DisplayName) != "" &&
		strings.TrimSpace(profile.Email) != ""
	syncPreferencesComplete := preferences != nil &&
		preferences.ShareProfile && preferences.SessionPresence

	importJob, err := s.store.LatestCompletedJob(models.SyncJobImport)
	if err != nil {
		return models.OnboardingTasks{}, err
	}
	exportJob, err := s.store.LatestCompletedJob(models.SyncJobExport)
	if err != nil {
		return models.OnboardingTasks{}, err
	}

	tasks := []models.OnboardingTask{
		buildTask("profile-basics", "Complete profile basics",
			"Confirm display name, contact email, and preferred timezone.",
			profileBasicsComplete, overrides),
		buildTask("sync-preferences", "Review sync preferences",
			"Decide how cloud backups and local exports should coordinate.",
			syncPreferencesComplete, overrides),
		buildTask("import-history", "Import existing grail history",
			"Bring in CSV exports or save files to seed the persistence layer.",
			importJob != nil, overrides),
		buildTask("share-progress", "Share a progress snapshot",
			"Generate a summary card to celebrate milestones with friends.",
			exportJob != nil, overrides),
	}

	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}
	percent := int(float64(completed)/float64(len(tasks))*100 + 0.5)

	return models.OnboardingTasks{Tasks: tasks, CompletionPercent: percent}, nil
}

func buildTask(id, label, description string, signalCompleted bool, overrides map[string]models.OnboardingTaskState) models.OnboardingTask {
	override, ok := overrides[id]
	manualCompleted := ok && override.Completed

	return models.OnboardingTask{
		ID:                 id,
		Label:              label,
		Description:        description,
		DerivedFromSignals: signalCompleted,
		Completed:          signalCompleted || manualCompleted,
	}
}
