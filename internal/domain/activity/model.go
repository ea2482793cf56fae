package activity

import "time"

// ActivityType represents the type of chart mutation.
type ActivityType string

const (
	TypeProjectCreated    ActivityType = "project_created"
	TypeProjectUpdated    ActivityType = "project_updated"
	TypeProjectDeleted    ActivityType = "project_deleted"
	TypeProjectsReordered ActivityType = "projects_reordered"
	TypeSettingsUpdated   ActivityType = "settings_updated"
	TypeChartImported     ActivityType = "chart_imported"
)

// ActivityEntry represents an event in the activity log.
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ProjectID    *string      `json:"project_id,omitempty"`
	SessionID    *string      `json:"session_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
	Revision     int64        `json:"revision"`
}
