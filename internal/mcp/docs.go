package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `ganttline keeps one Gantt chart per tenant: an ordered list of projects plus view settings.

Core concepts:
- Project: a named, tagged, coloured date range. end_date is inclusive. Dates are YYYY-MM-DD.
- Granularity: day, week, month, quarter or year. Each column of the chart is one bucket of that size.
- Bucket: a calendar period with a display label ("Sun 12", "Jan 12", "Jan 2025", "Q1 2025", "2025").
- Bar: a project's first and last bucket index (inclusive) plus pixel left/width.
- Revision: increases on every change to projects or settings.

Workflow:
1) list_projects and get_settings to orient.
2) create_project / update_project / move_project / delete_project to edit.
3) get_timeline to see buckets and bar positions; render_chart for SVG.
4) export_chart / import_chart to move a chart between workspaces.
5) get_recent_activity to see what changed.

Docs:
- ganttline://docs/index
- ganttline://docs/concepts
- ganttline://docs/exchange-format
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "ganttline://docs/index",
		Name:        "docs_index",
		Title:       "ganttline docs index",
		Description: "Entry point: tools by task and where to read more.",
		Content: `# ganttline: Agent Docs Index

## Quick start

1. ` + "`list_projects`" + ` and ` + "`get_settings`" + ` to see the chart.
2. ` + "`create_project`" + ` with ` + "`name`" + `, ` + "`start_date`" + `, ` + "`end_date`" + ` (and optionally ` + "`tag`" + `, ` + "`color`" + `).
3. ` + "`get_timeline`" + ` to read the bucket headers and each project's bar.
4. ` + "`render_chart`" + ` when a picture is wanted.

## Tools

- Projects: ` + "`create_project`" + `, ` + "`update_project`" + `, ` + "`delete_project`" + `, ` + "`get_project`" + `, ` + "`list_projects`" + `, ` + "`move_project`" + `.
- View: ` + "`get_settings`" + `, ` + "`update_settings`" + `, ` + "`get_timeline`" + `, ` + "`render_chart`" + `.
- Exchange: ` + "`export_chart`" + `, ` + "`import_chart`" + `.
- History: ` + "`get_recent_activity`" + `.

## Docs

- ` + "`ganttline://docs/concepts`" + `: buckets, labels and bar positions.
- ` + "`ganttline://docs/exchange-format`" + `: the JSON document used by export and import.

## Limitations

- Charts live in memory and are lost when the server stops; export to keep them.
`,
	},
	{
		URI:         "ganttline://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Buckets and bars",
		Description: "How the timeline is cut into buckets and how bars are positioned.",
		Content: `# Buckets and bars

## Buckets

The timeline runs from the start of the period holding the earliest project date to the start of
the period holding the latest one, one bucket per period, with no gaps.

| granularity | bucket starts on            | label      |
|-------------|-----------------------------|------------|
| day         | each day                    | Sun 12     |
| week        | the configured week start   | Jan 12     |
| month       | the 1st                     | Jan 2025   |
| quarter     | Jan 1, Apr 1, Jul 1, Oct 1  | Q1 2025    |
| year        | Jan 1                       | 2025       |

Weeks start on Sunday unless ` + "`week_start`" + ` says otherwise.

## Bars

A bar covers the bucket holding its start date through the bucket holding its end date, both
inclusive. ` + "`left = start_index * column_width`" + `, ` + "`width = (end_index - start_index + 1) * column_width`" + `.
A project whose end precedes its start cannot be saved.

## Revisions

Every change bumps the chart revision. ` + "`get_timeline`" + ` results are cached per revision, so
repeated reads are cheap.
`,
	},
	{
		URI:         "ganttline://docs/exchange-format",
		Name:        "docs_exchange_format",
		Title:       "Exchange format",
		Description: "The JSON document written by export_chart and read by import_chart.",
		Content: `# Exchange format

` + "```json" + `
{
  "projects": [
    {"id": "1", "name": "Terminal A", "tag": "JFK", "airport": "JFK",
     "startDate": "2025-01-15T00:00:00Z", "endDate": "2025-03-15T00:00:00Z", "color": "#007bff"}
  ],
  "settings": {"timeScale": "weeks", "columnWidth": 100, "projectColumnWidth": 200},
  "exportedAt": "2025-06-01T12:00:00Z"
}
` + "```" + `

- Dates may be RFC 3339 timestamps or plain ` + "`YYYY-MM-DD`" + `; only the calendar day is kept.
- ` + "`airport`" + ` is read as the tag when ` + "`tag`" + ` is absent.
- Projects without an ` + "`id`" + ` get a generated one.
- ` + "`timeScale`" + ` accepts singular or plural names. Missing settings keep their current value.
- Import replaces every project; it does not merge.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
