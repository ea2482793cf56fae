package mcp

import (
	"time"

	"github.com/rpggio/ganttline/internal/domain/activity"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/exchange"
	"github.com/rpggio/ganttline/internal/timeline"
)

// Dates cross the wire as YYYY-MM-DD strings; RFC 3339 timestamps are accepted on input.

type CreateProjectParams struct {
	ID        string `json:"id,omitempty" jsonschema:"Project id; generated when omitted"`
	Name      string `json:"name" jsonschema:"Project display name"`
	Tag       string `json:"tag,omitempty" jsonschema:"Short label shown in the tag column, such as an airport code"`
	StartDate string `json:"start_date" jsonschema:"First day of the project (YYYY-MM-DD)"`
	EndDate   string `json:"end_date" jsonschema:"Last day of the project, inclusive (YYYY-MM-DD)"`
	Color     string `json:"color,omitempty" jsonschema:"Bar colour as #rgb or #rrggbb; the next palette colour when omitted"`
}

type UpdateProjectParams struct {
	ID        string  `json:"id" jsonschema:"Project id"`
	Name      *string `json:"name,omitempty" jsonschema:"New name"`
	Tag       *string `json:"tag,omitempty" jsonschema:"New tag"`
	StartDate *string `json:"start_date,omitempty" jsonschema:"New start date (YYYY-MM-DD)"`
	EndDate   *string `json:"end_date,omitempty" jsonschema:"New end date (YYYY-MM-DD)"`
	Color     *string `json:"color,omitempty" jsonschema:"New colour; empty resets to the default"`
}

type ProjectIDParams struct {
	ID string `json:"id" jsonschema:"Project id"`
}

type ListProjectsParams struct{}

type MoveProjectParams struct {
	From int `json:"from" jsonschema:"Current zero-based row of the project"`
	To   int `json:"to" jsonschema:"Zero-based row to move it to"`
}

type GetSettingsParams struct{}

type UpdateSettingsParams struct {
	Granularity        *string  `json:"granularity,omitempty" jsonschema:"day, week, month, quarter or year"`
	ColumnWidth        *float64 `json:"column_width,omitempty" jsonschema:"Pixels per bucket column, 10 to 200"`
	ProjectColumnWidth *float64 `json:"project_column_width,omitempty" jsonschema:"Pixels for the project name column, 100 to 400"`
	WeekStart          *string  `json:"week_start,omitempty" jsonschema:"First day of week buckets, such as sunday or monday"`
}

type GetTimelineParams struct {
	Granularity string  `json:"granularity,omitempty" jsonschema:"Overrides the stored granularity for this call"`
	ColumnWidth float64 `json:"column_width,omitempty" jsonschema:"Overrides the stored column width for this call"`
}

type ExportChartParams struct{}

type ImportChartParams struct {
	Projects []exchange.ProjectRecord `json:"projects" jsonschema:"Projects in chart order, as produced by export_chart"`
	Settings *exchange.Settings       `json:"settings,omitempty" jsonschema:"View settings to apply; omitted fields keep their current value"`
}

type RenderChartParams struct {
	Granularity string  `json:"granularity,omitempty" jsonschema:"Overrides the stored granularity for this render"`
	ColumnWidth float64 `json:"column_width,omitempty" jsonschema:"Overrides the stored column width for this render"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Only entries for this project"`
	SessionID string `json:"session_id,omitempty" jsonschema:"Only entries from this session"`
	Type          string `json:"type,omitempty" jsonschema:"Only entries of this activity type"`
	SinceRevision int64  `json:"since_revision,omitempty" jsonschema:"Only entries recorded after this chart revision"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum entries, default 50, at most 500"`
	Offset        int    `json:"offset,omitempty" jsonschema:"Entries to skip"`
}

type ProjectResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tag       string `json:"tag,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Color     string `json:"color"`
	Position  int    `json:"position"`
}

type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type DeleteProjectResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type SettingsResponse struct {
	Revision           int64   `json:"revision"`
	Granularity        string  `json:"granularity"`
	ColumnWidth        float64 `json:"column_width"`
	ProjectColumnWidth float64 `json:"project_column_width"`
	WeekStart          string  `json:"week_start"`
}

type BucketResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

type BarResponse struct {
	ProjectID  string  `json:"project_id"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	Left       float64 `json:"left"`
	Width      float64 `json:"width"`
}

type TimelineResponse struct {
	Revision    int64            `json:"revision"`
	Granularity string           `json:"granularity"`
	WeekStart   string           `json:"week_start"`
	ColumnWidth float64          `json:"column_width"`
	Width       float64          `json:"width"`
	Buckets     []BucketResponse `json:"buckets"`
	Bars        []BarResponse    `json:"bars"`
	Warnings    []string         `json:"warnings,omitempty"`
}

type ExportChartResponse struct {
	Projects   []exchange.ProjectRecord `json:"projects"`
	Settings   *exchange.Settings       `json:"settings,omitempty"`
	ExportedAt string                   `json:"exportedAt"`
}

type ImportChartResponse struct {
	Revision int64             `json:"revision"`
	Settings SettingsResponse  `json:"settings"`
	Projects []ProjectResponse `json:"projects"`
}

type RenderChartResponse struct {
	SVG string `json:"svg"`
}

type ActivityEntryResponse struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Revision  int64  `json:"revision"`
	ProjectID string `json:"project_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
}

type GetRecentActivityResponse struct {
	Activity []ActivityEntryResponse `json:"activity"`
}

func formatDay(t time.Time) string {
	return timeline.Civil(t).Format(time.DateOnly)
}

func projectResponse(p project.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Tag:       p.Tag,
		StartDate: formatDay(p.StartDate),
		EndDate:   formatDay(p.EndDate),
		Color:     p.Color,
		Position:  p.Position,
	}
}

func projectResponses(projects []project.Project) []ProjectResponse {
	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, projectResponse(p))
	}
	return resp
}

func settingsResponse(revision int64, s chart.Settings) SettingsResponse {
	return SettingsResponse{
		Revision:           revision,
		Granularity:        s.Granularity.String(),
		ColumnWidth:        s.ColumnWidth,
		ProjectColumnWidth: s.ProjectColumnWidth,
		WeekStart:          s.WeekStart,
	}
}

func timelineResponse(view *chart.View) TimelineResponse {
	resp := TimelineResponse{
		Revision:    view.Revision,
		Granularity: view.Layout.Granularity.String(),
		WeekStart:   view.Settings.WeekStart,
		ColumnWidth: view.Layout.ColumnWidth,
		Width:       view.Layout.Width,
		Buckets:     make([]BucketResponse, 0, len(view.Layout.Buckets)),
		Bars:        make([]BarResponse, 0, len(view.Layout.Bars)),
		Warnings:    view.Warnings,
	}
	for _, b := range view.Layout.Buckets {
		resp.Buckets = append(resp.Buckets, BucketResponse{Date: formatDay(b.Date), Label: b.Label})
	}
	for i, bar := range view.Layout.Bars {
		r := BarResponse{
			StartIndex: bar.Range.StartIndex,
			EndIndex:   bar.Range.EndIndex,
			Left:       bar.Left,
			Width:      bar.Width,
		}
		if i < len(view.Projects) {
			r.ProjectID = view.Projects[i].ID
		}
		resp.Bars = append(resp.Bars, r)
	}
	return resp
}

func activityResponse(entry activity.ActivityEntry) ActivityEntryResponse {
	return ActivityEntryResponse{
		Timestamp: entry.CreatedAt.UTC().Format(time.RFC3339),
		Type:      string(entry.ActivityType),
		Revision:  entry.Revision,
		ProjectID: stringValue(entry.ProjectID),
		SessionID: stringValue(entry.SessionID),
		Summary:   entry.Summary,
		Details:   entry.Details,
	}
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
