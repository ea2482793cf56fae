// Package exchange reads and writes the portable chart document: the
// project list plus view settings, as exchanged with other Gantt tools.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/ganttline/internal/domain/project"
	"github.com/rpggio/ganttline/internal/timeline"
)

// ErrInvalidDocument is returned for malformed JSON or unusable field values.
var ErrInvalidDocument = errors.New("invalid chart document")

// Document is the exported form of a chart.
type Document struct {
	Projects   []ProjectRecord `json:"projects"`
	Settings   *Settings       `json:"settings,omitempty"`
	ExportedAt time.Time       `json:"exportedAt"`
}

// ProjectRecord is one exported project. Airport is the legacy name of Tag
// and is written alongside it.
type ProjectRecord struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Tag       string `json:"tag,omitempty"`
	Airport   string `json:"airport,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Color     string `json:"color,omitempty"`
}

// Settings is the exported view configuration. Zero values mean "not set".
type Settings struct {
	TimeScale          string  `json:"timeScale,omitempty"`
	ColumnWidth        float64 `json:"columnWidth,omitempty"`
	ProjectColumnWidth float64 `json:"projectColumnWidth,omitempty"`
}

// New builds a document from projects in chart order.
func New(projects []project.Project, settings Settings, exportedAt time.Time) Document {
	records := make([]ProjectRecord, 0, len(projects))
	for _, p := range projects {
		records = append(records, ProjectRecord{
			ID:        p.ID,
			Name:      p.Name,
			Tag:       p.Tag,
			Airport:   p.Tag,
			StartDate: formatDate(p.StartDate),
			EndDate:   formatDate(p.EndDate),
			Color:     p.Color,
		})
	}
	return Document{
		Projects:   records,
		Settings:   &settings,
		ExportedAt: exportedAt.UTC(),
	}
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding chart document: %w", err)
	}
	return nil
}

// Decode reads and checks a document. Projects without an id are given one.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := doc.Normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Normalize fills missing ids, maps the legacy airport key onto tag, and
// checks dates and the time scale.
func (d *Document) Normalize() error {
	for i := range d.Projects {
		rec := &d.Projects[i]
		if strings.TrimSpace(rec.ID) == "" {
			rec.ID = uuid.NewString()
		}
		if rec.Tag == "" {
			rec.Tag = rec.Airport
		}
	}
	if _, err := d.ProjectList(); err != nil {
		return err
	}
	if d.Settings != nil {
		if _, _, err := d.Settings.Granularity(); err != nil {
			return err
		}
	}
	return nil
}

// ProjectList converts the records to projects in document order.
func (d *Document) ProjectList() ([]project.Project, error) {
	projects := make([]project.Project, 0, len(d.Projects))
	for i, rec := range d.Projects {
		start, err := ParseDate(rec.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: project %d startDate: %v", ErrInvalidDocument, i, err)
		}
		end, err := ParseDate(rec.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: project %d endDate: %v", ErrInvalidDocument, i, err)
		}
		tag := rec.Tag
		if tag == "" {
			tag = rec.Airport
		}
		projects = append(projects, project.Project{
			ID:        rec.ID,
			Name:      rec.Name,
			Tag:       tag,
			StartDate: start,
			EndDate:   end,
			Color:     rec.Color,
			Position:  i,
		})
	}
	return projects, nil
}

// Granularity parses TimeScale. ok is false when no time scale was given.
func (s Settings) Granularity() (g timeline.Granularity, ok bool, err error) {
	if strings.TrimSpace(s.TimeScale) == "" {
		return "", false, nil
	}
	g, err = timeline.ParseGranularity(s.TimeScale)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return g, true, nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates and
// returns the calendar day they name.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return timeline.Civil(t), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return timeline.Civil(t).Format(time.RFC3339)
}
