package chart

import (
	"strings"
	"time"

	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/render"
	"github.com/rpggio/ganttline/internal/timeline"
)

// Column width bounds, in pixels.
const (
	MinColumnWidth        = 10
	MaxColumnWidth        = 200
	MinProjectColumnWidth = 100
	MaxProjectColumnWidth = 400
)

// Settings are the per-tenant view options of the chart.
type Settings struct {
	Granularity        timeline.Granularity `json:"granularity" validate:"required,granularity"`
	ColumnWidth        float64              `json:"column_width" validate:"min=10,max=200"`
	ProjectColumnWidth float64              `json:"project_column_width" validate:"min=100,max=400"`
	WeekStart          string               `json:"week_start" validate:"required,weekday"`
}

// DefaultSettings mirrors the original chart: weekly columns 100px wide,
// a 200px project column, weeks starting on Sunday.
func DefaultSettings() Settings {
	return Settings{
		Granularity:        timeline.Week,
		ColumnWidth:        100,
		ProjectColumnWidth: 200,
		WeekStart:          "sunday",
	}
}

// withDefaults fills zero fields from d.
func (s Settings) withDefaults(d Settings) Settings {
	if s.Granularity == "" {
		s.Granularity = d.Granularity
	}
	if s.ColumnWidth == 0 {
		s.ColumnWidth = d.ColumnWidth
	}
	if s.ProjectColumnWidth == 0 {
		s.ProjectColumnWidth = d.ProjectColumnWidth
	}
	if s.WeekStart == "" {
		s.WeekStart = d.WeekStart
	}
	return s
}

// Weekday returns the configured week start, Sunday when unset or unknown.
func (s Settings) Weekday() time.Weekday {
	wd, err := timeline.ParseWeekStart(s.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// Chart is the stored per-tenant chart state. Revision increases on every
// mutation of the chart's projects or settings.
type Chart struct {
	TenantID  string    `json:"tenant_id"`
	Settings  Settings  `json:"settings"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is a computed timeline for one chart revision. Views may be shared
// between callers and must be treated as read-only.
type View struct {
	Revision int64             `json:"revision"`
	Settings Settings          `json:"settings"`
	Projects []project.Project `json:"projects"`
	Layout   timeline.Layout   `json:"layout"`
	Warnings []string          `json:"warnings,omitempty"`
}

// RenderChart converts the view into rows for the SVG renderer.
func (v *View) RenderChart() render.Chart {
	rows := make([]render.Row, 0, len(v.Projects))
	for i, p := range v.Projects {
		row := render.Row{
			Name:  p.Name,
			Tag:   p.Tag,
			Color: p.Color,
			Start: p.StartDate,
			End:   p.EndDate,
		}
		if i < len(v.Layout.Bars) {
			row.Bar = v.Layout.Bars[i]
		}
		rows = append(rows, row)
	}
	return render.Chart{
		Buckets:            v.Layout.Buckets,
		Rows:               rows,
		ColumnWidth:        v.Layout.ColumnWidth,
		ProjectColumnWidth: v.Settings.ProjectColumnWidth,
	}
}

func normalizeWeekStart(s string) string {
	wd, err := timeline.ParseWeekStart(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(wd.String())
}
