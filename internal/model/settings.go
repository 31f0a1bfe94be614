package model

import "time"

const (
	SettingsCollection = "settings"
	SettingsMainID     = "main"
	TeamsCollection    = "teams"
)

var DefaultSessions = []string{"Morning", "Afternoon", "Final"}

// SeedSettings is the document written once per ingestion run. Keys already
// present in the stored settings and absent here are left alone.
func SeedSettings(now time.Time) map[string]any {
	sessions := make([]any, 0, len(DefaultSessions))
	for _, s := range DefaultSessions {
		sessions = append(sessions, s)
	}
	return map[string]any{
		"attendanceEnabled": false,
		"currentSession":    DefaultSessions[0],
		"sessions":          sessions,
		"createdAt":         now.UTC().Format(time.RFC3339),
	}
}
