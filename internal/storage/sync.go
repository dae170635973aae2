package storage

import (
	"database/sql"
	"time"

	"github.com/patrickdoane/grail-tracker-redux/internal/models"
)

const syncJobColumns = "id, type, status, progress, message, connector_slug, retry_count, created_at, updated_at"

func scanSyncJob(row interface{ Scan(...interface{}) error }) (models.SyncJob, error) {
	var j models.SyncJob
	err := row.Scan(&j.ID, &j.Type, &j.Status, &j.Progress, &j.Message,
		&j.ConnectorSlug, &j.RetryCount, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

// StartSyncJob records a new in-progress job.
func (s *Store) StartSyncJob(jobType, connectorSlug, message string) (*models.SyncJob, error) {
	now := time.Now()
	job := models.SyncJob{
		Type:          jobType,
		Status:        models.SyncStatusInProgress,
		Progress:      5,
		Message:       message,
		ConnectorSlug: connectorSlug,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res, err := s.db.Exec(`
		INSERT INTO sync_jobs (type, status, progress, message, connector_slug, retry_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, job.Type, job.Status, job.Progress, job.Message, job.ConnectorSlug, job.RetryCount,
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateSyncJob overwrites a job's mutable fields.
func (s *Store) UpdateSyncJob(job *models.SyncJob) error {
	job.UpdatedAt = time.Now()
	_, err := s.db.Exec(`
		UPDATE sync_jobs SET status = ?, progress = ?, message = ?, retry_count = ?, updated_at = ?
		WHERE id = ?
	`, job.Status, job.Progress, job.Message, job.RetryCount, job.UpdatedAt, job.ID)
	return err
}

// SyncJobByID returns one job, or nil when it does not exist.
func (s *Store) SyncJobByID(id int64) (*models.SyncJob, error) {
	job, err := scanSyncJob(s.db.QueryRow(`SELECT `+syncJobColumns+` FROM sync_jobs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// LatestCompletedJob returns the most recently completed job of a type, or
// nil when none finished yet.
func (s *Store) LatestCompletedJob(jobType string) (*models.SyncJob, error) {
	job, err := scanSyncJob(s.db.QueryRow(`
		SELECT `+syncJobColumns+` FROM sync_jobs
		WHERE type = ? AND status = ? ORDER BY updated_at DESC, id DESC LIMIT 1
	`, jobType, models.SyncStatusCompleted))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// --- Data connectors ---

const connectorColumns = `id, slug, label, description, status_variant, status_message,
		last_sync_summary, next_sync_summary, action_label, display_order, updated_at`

func scanConnector(row interface{ Scan(...interface{}) error }) (models.DataConnector, error) {
	var c models.DataConnector
	err := row.Scan(&c.ID, &c.Slug, &c.Label, &c.Description, &c.StatusVariant, &c.StatusMessage,
		&c.LastSyncSummary, &c.NextSyncSummary, &c.ActionLabel, &c.DisplayOrder, &c.UpdatedAt)
	return c, err
}

// AllConnectors returns every connector in display order.
func (s *Store) AllConnectors() ([]models.DataConnector, error) {
	rows, err := s.db.Query(`SELECT ` + connectorColumns + ` FROM data_connectors ORDER BY display_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connectors []models.DataConnector
	for rows.Next() {
		c, err := scanConnector(rows)
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, c)
	}
	return connectors, rows.Err()
}

// ConnectorBySlug returns one connector, or nil when it does not exist.
func (s *Store) ConnectorBySlug(slug string) (*models.DataConnector, error) {
	c, err := scanConnector(s.db.QueryRow(`
		SELECT `+connectorColumns+` FROM data_connectors WHERE slug = ?
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateConnector overwrites a connector's status fields.
func (s *Store) UpdateConnector(c *models.DataConnector) error {
	_, err := s.db.Exec(`
		UPDATE data_connectors SET status_variant = ?, status_message = ?,
			last_sync_summary = ?, next_sync_summary = ?, updated_at = ?
		WHERE id = ?
	`, c.StatusVariant, c.StatusMessage, c.LastSyncSummary, c.NextSyncSummary, c.UpdatedAt, c.ID)
	return err
}

// BootstrapConnectors seeds the default connectors once; it is a no-op when
// any connector already exists.
func (s *Store) BootstrapConnectors() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM data_connectors`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.DataConnector{
		{
			Slug:            "cloud-backup",
			Label:           "Grail Cloud backup",
			Description:     "Persist finds to the hosted service. Mirrors the /api/user-items endpoints.",
			StatusVariant:   models.StatusSuccess,
			StatusMessage:   "Connected",
			LastSyncSummary: "Synced 12 minutes ago",
			NextSyncSummary: "Autosync in 15 minutes",
			ActionLabel:     "Manage connection",
			DisplayOrder:    0,
		},
		{
			Slug:            "local-archive",
			Label:           "Local archive exports",
			Description:     "Generate encrypted JSON + CSV bundles for offline storage and version history.",
			StatusVariant:   models.StatusInfo,
			StatusMessage:   "Scheduled nightly",
			LastSyncSummary: "Next run at 02:00 local time",
			NextSyncSummary: "Change schedule",
			ActionLabel:     "Open schedule",
			DisplayOrder:    1,
		},
		{
			Slug:            "d2r-import",
			Label:           "Diablo II save import",
			Description:     "Upload the latest offline save to merge rune ownership and grail finds.",
			StatusVariant:   models.StatusWarning,
			StatusMessage:   "Awaiting file",
			LastSyncSummary: "Last merged 3 sessions ago",
			NextSyncSummary: "Ready when you are",
			ActionLabel:     "Launch importer",
			DisplayOrder:    2,
		},
	}

	for _, c := range defaults {
		_, err := s.db.Exec(`
			INSERT INTO data_connectors (slug, label, description, status_variant, status_message,
				last_sync_summary, next_sync_summary, action_label, display_order, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.Slug, c.Label, c.Description, c.StatusVariant, c.StatusMessage,
			c.LastSyncSummary, c.NextSyncSummary, c.ActionLabel, c.DisplayOrder, time.Now())
		if err != nil {
			return err
		}
	}
	return nil
}
