package models

import "time"

// Sync job types.
const (
	SyncJobImport        = "IMPORT"
	SyncJobExport        = "EXPORT"
	SyncJobConnectorSync = "CONNECTOR_SYNC"
)

// Sync job statuses.
const (
	SyncStatusInProgress = "IN_PROGRESS"
	SyncStatusCompleted  = "COMPLETED"
	SyncStatusFailed     = "FAILED"
)

// SyncJob tracks one import, export, or connector sync run.
type SyncJob struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Progress      int       `json:"progress"`
	Message       string    `json:"message"`
	ConnectorSlug string    `json:"connectorId,omitempty"`
	RetryCount    int       `json:"retryCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Connector status variants.
const (
	StatusInfo    = "INFO"
	StatusSuccess = "SUCCESS"
	StatusWarning = "WARNING"
	StatusError   = "ERROR"
)

// DataConnector describes one external data channel (cloud backup, local
// archive, save-file import) and its last known sync state.
type DataConnector struct {
	ID              int64     `json:"-"`
	Slug            string    `json:"id"`
	Label           string    `json:"label"`
	Description     string    `json:"description"`
	StatusVariant   string    `json:"statusVariant"`
	StatusMessage   string    `json:"statusMessage"`
	LastSyncSummary string    `json:"lastSyncSummary"`
	NextSyncSummary string    `json:"nextSyncSummary"`
	ActionLabel     string    `json:"actionLabel"`
	DisplayOrder    int       `json:"-"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
