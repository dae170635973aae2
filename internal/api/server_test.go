package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickdoane/grail-tracker-redux/internal/auth"
	"github.com/patrickdoane/grail-tracker-redux/internal/logger"
	"github.com/patrickdoane/grail-tracker-redux/internal/models"
	"github.com/patrickdoane/grail-tracker-redux/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewTokenService("test-secret", time.Hour)
	server := New(store, tokens, logger.NewNop(), []string{"*"})
	return server, store
}

func doJSON(t *testing.T, server http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRegisterLoginAndMe(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "meridian",
		"email":    "meridian@example.com",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, rec, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	// Duplicate username and email are rejected separately
	rec = doJSON(t, server, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "meridian",
		"email":    "other@example.com",
		"password": "hunter2!",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "other",
		"email":    "meridian@example.com",
		"password": "hunter2!",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/auth/login", map[string]string{
		"usernameOrEmail": "meridian@example.com",
		"password":        "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/auth/login", map[string]string{
		"usernameOrEmail": "meridian@example.com",
		"password":        "hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loggedIn struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &loggedIn)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	recMe := httptest.NewRecorder()
	server.ServeHTTP(recMe, req)
	require.Equal(t, http.StatusOK, recMe.Code)

	var me models.User
	decodeBody(t, recMe, &me)
	assert.Equal(t, "meridian", me.Username)

	recAnon := doJSON(t, server, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, recAnon.Code)
}

func TestItemEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/items", map[string]string{
		"name":    "Harlequin Crest",
		"type":    "Shako",
		"quality": "Unique",
		"rarity":  "Unique",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Item
	decodeBody(t, rec, &created)
	require.NotZero(t, created.ID)

	rec = doJSON(t, server, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Item
	decodeBody(t, rec, &items)
	assert.Len(t, items, 1)

	rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/items/%d", created.ID), map[string]string{
		"name":        "Harlequin Crest",
		"type":        "Shako",
		"quality":     "Unique",
		"rarity":      "Unique",
		"description": "The grail starter",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/items/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemValidation(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/items", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/items/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemDetailDerivesVariants(t *testing.T) {
	server, store := newTestServer(t)

	item := models.Item{Name: "Griswold's Redemption", Quality: "Set"}
	require.NoError(t, store.CreateItem(&item))
	for _, p := range []models.ItemProperty{
		{ItemID: item.ID, PropertyName: "Variant: Ethereal", PropertyValue: "Zero durability roll"},
		{ItemID: item.ID, PropertyName: "Variant: Ethereal", PropertyValue: "+4 sockets"},
		{ItemID: item.ID, PropertyName: "Variant - Perfect", PropertyValue: "Max damage roll"},
		{ItemID: item.ID, PropertyName: "Set Name", PropertyValue: "Griswold's Legacy"},
	} {
		prop := p
		require.NoError(t, store.CreateProperty(&prop))
	}

	rec := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/items/%d/details", item.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.ItemDetail
	decodeBody(t, rec, &detail)
	require.Len(t, detail.Variants, 2)
	assert.Equal(t, "Ethereal", detail.Variants[0].Label)
	assert.Equal(t, "Zero durability roll", detail.Variants[0].Description)
	assert.Equal(t, []string{"+4 sockets"}, detail.Variants[0].Attributes)
	assert.Equal(t, "Perfect", detail.Variants[1].Label)
	assert.Len(t, detail.Properties, 4)
}

func TestItemDetailFallbackVariant(t *testing.T) {
	server, store := newTestServer(t)

	item := models.Item{Name: "Harlequin Crest", Quality: "Unique", Description: "The grail starter"}
	require.NoError(t, store.CreateItem(&item))

	rec := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/items/%d/details", item.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.ItemDetail
	decodeBody(t, rec, &detail)
	require.Len(t, detail.Variants, 1)
	assert.Equal(t, "Harlequin Crest", detail.Variants[0].Label)
	assert.Equal(t, "The grail starter", detail.Variants[0].Description)
}

func TestItemNotes(t *testing.T) {
	server, store := newTestServer(t)

	item := models.Item{Name: "Harlequin Crest", Quality: "Unique"}
	require.NoError(t, store.CreateItem(&item))

	rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/items/%d/notes", item.ID), map[string]string{
		"authorName": "meridian",
		"body":       "Dropped off Mephisto",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/items/%d/notes", item.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []models.ItemNote
	decodeBody(t, rec, &notes)
	require.Len(t, notes, 1)
	assert.Equal(t, "Dropped off Mephisto", notes[0].Body)
}

func TestCollectionsEndpoint(t *testing.T) {
	server, store := newTestServer(t)

	shield := models.Item{Name: "Civerb's Ward", Quality: "Set"}
	require.NoError(t, store.CreateItem(&shield))
	prop := models.ItemProperty{ItemID: shield.ID, PropertyName: "Set Name", PropertyValue: "Civerb's Vestments"}
	require.NoError(t, store.CreateProperty(&prop))

	tir := models.Item{Name: "Tir", Quality: "Rune"}
	require.NoError(t, store.CreateItem(&tir))
	steel := models.Item{
		Name:        "Steel",
		Type:        "Swords and Axes and Maces",
		Quality:     "Runeword",
		Description: "Sockets: 2|Highest Rune: Tir|Runes: Tir+El|Ladder: No",
	}
	require.NoError(t, store.CreateItem(&steel))

	user := models.User{Username: "meridian", Email: "m@example.com", Role: models.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(&user))
	found := models.UserItem{UserID: user.ID, ItemID: tir.ID, FoundAt: time.Now()}
	require.NoError(t, store.CreateUserItem(&found))

	rec := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/collections?userId=%d", user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response models.CollectionsResponse
	decodeBody(t, rec, &response)
	require.Len(t, response.Sets, 1)
	assert.Equal(t, "Civerb's Vestments", response.Sets[0].Name)
	assert.Equal(t, models.CollectionTypeSet, response.Sets[0].Type)
	assert.Equal(t, 0, response.Sets[0].FoundItems)

	require.Len(t, response.Runewords, 1)
	steelCollection := response.Runewords[0]
	assert.Equal(t, models.CollectionTypeRuneword, steelCollection.Type)
	assert.Equal(t, 2, steelCollection.TotalItems)
	assert.Equal(t, 1, steelCollection.FoundItems)

	rec = doJSON(t, server, http.MethodGet, "/api/collections?userId=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserItemEndpoints(t *testing.T) {
	server, store := newTestServer(t)

	user := models.User{Username: "meridian", Email: "m@example.com", Role: models.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(&user))
	item := models.Item{Name: "Ber", Quality: "Rune"}
	require.NoError(t, store.CreateItem(&item))

	rec := doJSON(t, server, http.MethodPost, "/api/user-items", map[string]interface{}{
		"userId": user.ID,
		"itemId": item.ID,
		"notes":  "Traded for it",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.UserItem
	decodeBody(t, rec, &created)
	assert.False(t, created.FoundAt.IsZero())

	rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/user-items?userId=%d", user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []models.UserItem
	decodeBody(t, rec, &records)
	assert.Len(t, records, 1)

	rec = doJSON(t, server, http.MethodPost, "/api/user-items", map[string]interface{}{
		"userId": user.ID,
		"itemId": int64(9999),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileAndPreferences(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/user-profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.UserProfile
	decodeBody(t, rec, &profile)
	assert.Equal(t, "Grail Seeker", profile.DisplayName)

	rec = doJSON(t, server, http.MethodPut, "/api/user-profile", map[string]string{
		"displayName": "Meridian",
		"tagline":     "One Zod away",
		"email":       "Meridian@Example.com",
		"timezone":    "Europe/Berlin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &profile)
	assert.Equal(t, "meridian@example.com", profile.Email)

	rec = doJSON(t, server, http.MethodPut, "/api/user-profile", map[string]string{
		"displayName": "Meridian",
		"email":       "m@example.com",
		"timezone":    "Not/AZone",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/user-preferences", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prefs models.UserPreferences
	decodeBody(t, rec, &prefs)
	assert.EqualValues(t, 0, prefs.BroadcastVersion)

	rec = doJSON(t, server, http.MethodPut, "/api/user-preferences", map[string]interface{}{
		"shareProfile":          false,
		"sessionPresence":       true,
		"notifyFinds":           true,
		"themeMode":             models.ThemeDark,
		"accentColor":           models.AccentGlacier,
		"enableTooltipContrast": false,
		"reduceMotion":          true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &prefs)
	assert.EqualValues(t, 1, prefs.BroadcastVersion)
	assert.False(t, prefs.ShareProfile)
	assert.Equal(t, models.ThemeDark, prefs.ThemeMode)
}

func TestOnboardingTasks(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/onboarding/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks models.OnboardingTasks
	decodeBody(t, rec, &tasks)
	require.Len(t, tasks.Tasks, 4)

	// Placeholder profile already satisfies the basics signal
	assert.Equal(t, "profile-basics", tasks.Tasks[0].ID)
	assert.True(t, tasks.Tasks[0].Completed)
	assert.False(t, tasks.Tasks[1].Completed)
	assert.Equal(t, 25, tasks.CompletionPercent)

	rec = doJSON(t, server, http.MethodPost, "/api/onboarding/tasks/share-progress", map[string]bool{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var task models.OnboardingTask
	decodeBody(t, rec, &task)
	assert.True(t, task.Completed)
	assert.False(t, task.DerivedFromSignals)

	rec = doJSON(t, server, http.MethodGet, "/api/onboarding/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &tasks)
	assert.Equal(t, 50, tasks.CompletionPercent)
}

func multipartImport(t *testing.T, server http.Handler, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "grail.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/user-data/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestImportCountsRecords(t *testing.T) {
	server, _ := newTestServer(t)

	rec := multipartImport(t, server, "Harlequin Crest\n\nZod\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Job               models.SyncJob `json:"job"`
		ConflictsDetected bool           `json:"conflictsDetected"`
	}
	decodeBody(t, rec, &response)
	assert.False(t, response.ConflictsDetected)
	assert.Equal(t, models.SyncStatusCompleted, response.Job.Status)
	assert.Equal(t, "Imported 2 records", response.Job.Message)
}

func TestImportConflictFailsJob(t *testing.T) {
	server, _ := newTestServer(t)

	rec := multipartImport(t, server, "Harlequin Crest\nCONFLICT: duplicate entry\n")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Job               models.SyncJob `json:"job"`
		ConflictsDetected bool           `json:"conflictsDetected"`
	}
	decodeBody(t, rec, &response)
	assert.True(t, response.ConflictsDetected)
	assert.Equal(t, models.SyncStatusFailed, response.Job.Status)
	assert.Equal(t, 1, response.Job.RetryCount)

	// Retrying starts a fresh job carrying the retry count forward
	rec = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/user-data/import/%d/retry", response.Job.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &response)
	assert.Equal(t, models.SyncStatusCompleted, response.Job.Status)
	assert.Equal(t, 2, response.Job.RetryCount)
}

func TestExportDownload(t *testing.T) {
	server, store := newTestServer(t)

	user := models.User{Username: "meridian", Email: "m@example.com", Role: models.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(&user))
	shako := models.Item{Name: "Harlequin Crest", Quality: "Unique", Rarity: "Unique"}
	require.NoError(t, store.CreateItem(&shako))
	zod := models.Item{Name: "Zod", Quality: "Rune", Rarity: "High"}
	require.NoError(t, store.CreateItem(&zod))
	found := models.UserItem{UserID: user.ID, ItemID: shako.ID, FoundAt: time.Now(), Notes: "Mephisto"}
	require.NoError(t, store.CreateUserItem(&found))

	rec := doJSON(t, server, http.MethodPost, "/api/user-data/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Job         models.SyncJob `json:"job"`
		DownloadURL string         `json:"downloadUrl"`
	}
	decodeBody(t, rec, &response)
	assert.Equal(t, models.SyncStatusCompleted, response.Job.Status)
	require.Contains(t, response.DownloadURL, "/download?format=csv")

	rec = doJSON(t, server, http.MethodGet, response.DownloadURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "grail-export-")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "type,name,rarity,notes", lines[0])
	assert.Equal(t, "item,Harlequin Crest,Unique,Mephisto", lines[1])

	rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/user-data/export/%d/download?format=json", response.Job.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Items []struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"items"`
	}
	decodeBody(t, rec, &payload)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "item", payload.Items[0].Type)

	rec = doJSON(t, server, http.MethodGet, "/api/user-data/export/9999/download", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadRequiresCompletedJob(t *testing.T) {
	server, store := newTestServer(t)

	job, err := store.StartSyncJob(models.SyncJobExport, "", "Generating export")
	require.NoError(t, err)

	rec := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/user-data/export/%d/download", job.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectorsAndActions(t *testing.T) {
	server, store := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/data-connectors", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var connectors []models.DataConnector
	decodeBody(t, rec, &connectors)
	require.Len(t, connectors, 3)
	assert.Equal(t, "cloud-backup", connectors[0].Slug)

	rec = doJSON(t, server, http.MethodPost, "/api/data-connectors/cloud-backup/actions", map[string]string{
		"action": "sync",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var job models.SyncJob
	decodeBody(t, rec, &job)
	assert.Equal(t, models.SyncJobConnectorSync, job.Type)
	assert.Equal(t, models.SyncStatusCompleted, job.Status)
	assert.Equal(t, "Manual sync completed", job.Message)

	connector, err := store.ConnectorBySlug("cloud-backup")
	require.NoError(t, err)
	assert.Equal(t, "Syncing", connector.StatusMessage)

	rec = doJSON(t, server, http.MethodPost, "/api/data-connectors/cloud-backup/actions", map[string]string{
		"action": "detonate",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/data-connectors/nope/actions", map[string]string{
		"action": "sync",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/api/users", map[string]string{
		"username": "meridian",
		"email":    "m@example.com",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	decodeBody(t, rec, &created)
	assert.Equal(t, models.RoleUser, created.Role)

	rec = doJSON(t, server, http.MethodPost, "/api/users", map[string]string{
		"username": "meridian",
		"email":    "other@example.com",
		"password": "hunter2!",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID), map[string]string{
		"username": "meridian",
		"email":    "new@example.com",
		"role":     models.RoleAdmin,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &created)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.Equal(t, "new@example.com", created.Email)

	rec = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/users/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
