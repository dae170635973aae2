package models

import "time"

// UserProfile is the single local profile shown on the settings screen. It is
// created lazily with placeholder values the first time it is requested.
type UserProfile struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Tagline     string    `json:"tagline"`
	Email       string    `json:"email"`
	Timezone    string    `json:"timezone"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Theme modes and accent colors for UserPreferences.
const (
	ThemeSystem = "SYSTEM"
	ThemeLight  = "LIGHT"
	ThemeDark   = "DARK"

	AccentEmber    = "EMBER"
	AccentGlacier  = "GLACIER"
	AccentVerdant  = "VERDANT"
	AccentTwilight = "TWILIGHT"
)

// UserPreferences holds sync and presentation toggles for the profile.
// BroadcastVersion increments on every update so connected clients can
// detect stale settings.
type UserPreferences struct {
	ID                    int64     `json:"id"`
	ProfileID             int64     `json:"-"`
	ShareProfile          bool      `json:"shareProfile"`
	SessionPresence       bool      `json:"sessionPresence"`
	NotifyFinds           bool      `json:"notifyFinds"`
	ThemeMode             string    `json:"themeMode"`
	AccentColor           string    `json:"accentColor"`
	EnableTooltipContrast bool      `json:"enableTooltipContrast"`
	ReduceMotion          bool      `json:"reduceMotion"`
	UpdatedAt             time.Time `json:"updatedAt"`
	BroadcastVersion      int64     `json:"broadcastVersion"`
}

// OnboardingTaskState is a manual completion override for one checklist task.
type OnboardingTaskState struct {
	ID        int64     `json:"-"`
	TaskID    string    `json:"taskId"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OnboardingTask is a derived checklist entry; completion comes from live
// signals (profile filled in, import ran, ...) or a manual override.
type OnboardingTask struct {
	ID                 string `json:"id"`
	Label              string `json:"label"`
	Description        string `json:"description"`
	DerivedFromSignals bool   `json:"derivedFromSignals"`
	Completed          bool   `json:"completed"`
}

// OnboardingTasks is the full checklist with an overall percentage.
type OnboardingTasks struct {
	Tasks             []OnboardingTask `json:"tasks"`
	CompletionPercent int              `json:"completionPercent"`
}
