package storage

import (
	"database/sql"
	"time"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

// EnsureProfile returns the most recently updated profile, creating a
// placeholder one on first use.
func (s *Store) EnsureProfile() (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.db.QueryRow(`
		SELECT id, display_name, tagline, email, timezone, updated_at
		FROM user_profiles ORDER BY updated_at DESC, id DESC LIMIT 1
	`).Scan(&p.ID, &p.DisplayName, &p.Tagline, &p.Email, &p.Timezone, &p.UpdatedAt)
	if err == nil {
		return &p, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	p = models.UserProfile{
		DisplayName: "Grail Seeker",
		Tagline:     "Tracking every last drop.",
		Email:       "grail@example.com",
		Timezone:    "UTC",
		UpdatedAt:   time.Now(),
	}
	res, err := s.db.Exec(`
		INSERT INTO user_profiles (display_name, tagline, email, timezone, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.DisplayName, p.Tagline, p.Email, p.Timezone, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile overwrites the profile row.
func (s *Store) UpdateProfile(p *models.UserProfile) error {
	_, err := s.db.Exec(`
		UPDATE user_profiles SET display_name = ?, tagline = ?, email = ?, timezone = ?, updated_at = ?
		WHERE id = ?
	`, p.DisplayName, p.Tagline, p.Email, p.Timezone, p.UpdatedAt, p.ID)
	return err
}

const preferenceColumns = `id, profile_id, share_profile, session_presence, notify_finds,
		theme_mode, accent_color, enable_tooltip_contrast, reduce_motion, updated_at, broadcast_version`

func scanPreferences(row interface{ Scan(...interface{}) error }) (models.UserPreferences, error) {
	var p models.UserPreferences
	err := row.Scan(&p.ID, &p.ProfileID, &p.ShareProfile, &p.SessionPresence, &p.NotifyFinds,
		&p.ThemeMode, &p.AccentColor, &p.EnableTooltipContrast, &p.ReduceMotion,
		&p.UpdatedAt, &p.BroadcastVersion)
	return p, err
}

// PreferencesByProfileID returns the preferences row for one profile, or nil
// when none has been saved yet.
func (s *Store) PreferencesByProfileID(profileID int64) (*models.UserPreferences, error) {
	p, err := scanPreferences(s.db.QueryRow(`
		SELECT `+preferenceColumns+` FROM user_preferences WHERE profile_id = ?
	`, profileID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsurePreferences returns the preferences attached to the active profile,
// creating default ones (and the profile) on first use.
func (s *Store) EnsurePreferences() (*models.UserPreferences, error) {
	profile, err := s.EnsureProfile()
	if err != nil {
		return nil, err
	}

	p, err := scanPreferences(s.db.QueryRow(`
		SELECT `+preferenceColumns+` FROM user_preferences WHERE profile_id = ?
	`, profile.ID))
	if err == nil {
		return &p, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	p = models.UserPreferences{
		ProfileID:             profile.ID,
		ShareProfile:          true,
		SessionPresence:       true,
		NotifyFinds:           false,
		ThemeMode:             models.ThemeSystem,
		AccentColor:           models.AccentEmber,
		EnableTooltipContrast: true,
		ReduceMotion:          false,
		UpdatedAt:             time.Now(),
	}
	res, err := s.db.Exec(`
		INSERT INTO user_preferences (profile_id, share_profile, session_presence, notify_finds,
			theme_mode, accent_color, enable_tooltip_contrast, reduce_motion, updated_at, broadcast_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ProfileID, p.ShareProfile, p.SessionPresence, p.NotifyFinds,
		p.ThemeMode, p.AccentColor, p.EnableTooltipContrast, p.ReduceMotion,
		p.UpdatedAt, p.BroadcastVersion)
	if err != nil {
		return nil, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreferences overwrites the preferences row.
func (s *Store) UpdatePreferences(p *models.UserPreferences) error {
	_, err := s.db.Exec(`
		UPDATE user_preferences SET share_profile = ?, session_presence = ?, notify_finds = ?,
			theme_mode = ?, accent_color = ?, enable_tooltip_contrast = ?, reduce_motion = ?,
			updated_at = ?, broadcast_version = ?
		WHERE id = ?
	`, p.ShareProfile, p.SessionPresence, p.NotifyFinds,
		p.ThemeMode, p.AccentColor, p.EnableTooltipContrast, p.ReduceMotion,
		p.UpdatedAt, p.BroadcastVersion, p.ID)
	return err
}

// --- Onboarding task overrides ---

// TaskStates returns all manual onboarding overrides keyed by task id.
func (s *Store) TaskStates() (map[string]models.OnboardingTaskState, error) {
	rows, err := s.db.Query(`SELECT id, task_id, completed, updated_at FROM onboarding_task_states`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make(map[string]models.OnboardingTaskState)
	for rows.Next() {
		var st models.OnboardingTaskState
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Completed, &st.UpdatedAt); err != nil {
			return nil, err
		}
		states[st.TaskID] = st
	}
	return states, rows.Err()
}

// UpsertTaskState records a manual completion override for a task.
func (s *Store) UpsertTaskState(taskID string, completed bool) error {
	_, err := s.db.Exec(`
		INSERT INTO onboarding_task_states (task_id, completed, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET completed = excluded.completed, updated_at = excluded.updated_at
	`, taskID, completed, time.Now())
	return err
}
