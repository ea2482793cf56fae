package project

import (
	"time"

	"github.com/rpggio/ganttline/internal/timeline"
)

// Project is one bar on the chart: a named, tagged, coloured date range.
// EndDate is inclusive.
type Project struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Tag       string    `json:"tag,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Color     string    `json:"color"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Span returns the engine view of the project's dates.
func (p Project) Span() timeline.Span {
	return timeline.Span{Start: p.StartDate, End: p.EndDate}
}

// Spans returns the spans of projects in order.
func Spans(projects []Project) []timeline.Span {
	spans := make([]timeline.Span, len(projects))
	for i, p := range projects {
		spans[i] = p.Span()
	}
	return spans
}
