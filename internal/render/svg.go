// Package render draws a computed chart layout as an SVG document.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpggio/ganttline/internal/timeline"
)

const emptyMessage = "No projects to display. Add a project to get started."

// Row is one project line of the chart.
type Row struct {
	Name  string
	Tag   string
	Color string
	Start time.Time
	End   time.Time
	Bar   timeline.Bar
}

// Chart is everything needed to draw: the timeline geometry and one row
// per bar, in display order.
type Chart struct {
	Buckets            []timeline.Bucket
	Rows               []Row
	ColumnWidth        float64
	ProjectColumnWidth float64
}

// SVG writes chart to w.
func SVG(w io.Writer, chart Chart, cfg Config) error {
	var svg strings.Builder
	if len(chart.Rows) == 0 || len(chart.Buckets) == 0 {
		writeEmpty(&svg, cfg)
	} else {
		writeChart(&svg, chart, cfg)
	}
	if _, err := io.WriteString(w, svg.String()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writeEmpty(svg *strings.Builder, cfg Config) {
	width, height := cfg.Layout.EmptyWidth, cfg.Layout.EmptyHeight
	writeHeader(svg, float64(width), float64(height), cfg)
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="16" fill="%s">%s</text>`,
		width/2, height/2, escapeXML(cfg.Font.Family), cfg.Colors.EmptyMessage, escapeXML(emptyMessage)))
	svg.WriteString("\n</svg>\n")
}

func writeChart(svg *strings.Builder, chart Chart, cfg Config) {
	l := cfg.Layout
	tagWidth := float64(l.TagColumnWidth)
	labelWidth := chart.ProjectColumnWidth
	originX := tagWidth + labelWidth
	timelineWidth := float64(len(chart.Buckets)) * chart.ColumnWidth
	width := originX + timelineWidth
	height := float64(l.HeaderHeight + len(chart.Rows)*l.RowHeight)

	writeHeader(svg, width, height, cfg)

	// Header row.
	svg.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%s" height="%d" fill="%s"/>`+"\n",
		num(width), l.HeaderHeight, cfg.Colors.HeaderFill))
	headerY := l.HeaderHeight / 2
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="600" fill="%s">Tag</text>`+"\n",
		l.LabelPadding, headerY, escapeXML(cfg.Font.Family), cfg.Font.Header, cfg.Colors.HeaderText))
	svg.WriteString(fmt.Sprintf(`<text x="%s" y="%d" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="600" fill="%s">Project</text>`+"\n",
		num(tagWidth+float64(l.LabelPadding)), headerY, escapeXML(cfg.Font.Family), cfg.Font.Header, cfg.Colors.HeaderText))
	for i, b := range chart.Buckets {
		x := originX + float64(i)*chart.ColumnWidth
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="600" fill="%s">%s</text>`+"\n",
			num(x+chart.ColumnWidth/2), headerY, escapeXML(cfg.Font.Family), cfg.Font.Header, cfg.Colors.HeaderText, escapeXML(b.Label)))
		svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(x), num(x), num(height), cfg.Colors.Grid))
	}
	svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%s" y2="%d" stroke="%s" stroke-width="2"/>`+"\n",
		l.HeaderHeight, num(width), l.HeaderHeight, cfg.Colors.Divider))

	// Project rows.
	for i, row := range chart.Rows {
		top := l.HeaderHeight + i*l.RowHeight
		mid := top + l.RowHeight/2
		svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%s" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			top+l.RowHeight, num(width), top+l.RowHeight, cfg.Colors.Grid))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="500" fill="%s">%s</text>`+"\n",
			l.LabelPadding, mid, escapeXML(cfg.Font.Family), cfg.Font.Size, cfg.Colors.Text, escapeXML(row.Tag)))
		svg.WriteString(fmt.Sprintf(`<text x="%s" y="%d" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="500" fill="%s">%s</text>`+"\n",
			num(tagWidth+float64(l.LabelPadding)), mid, escapeXML(cfg.Font.Family), cfg.Font.Size, cfg.Colors.Text, escapeXML(row.Name)))

		barX := originX + row.Bar.Left
		barY := mid - l.BarHeight/2
		svg.WriteString(fmt.Sprintf(`<g class="bar"><title>%s</title>`, escapeXML(tooltip(row))))
		svg.WriteString(fmt.Sprintf(`<rect x="%s" y="%d" width="%s" height="%d" rx="%d" ry="%d" fill="%s"/>`,
			num(barX), barY, num(row.Bar.Width), l.BarHeight, l.BarRadius, l.BarRadius, escapeXML(row.Color)))
		if row.Bar.Width > cfg.MinLabelWidth {
			svg.WriteString(fmt.Sprintf(`<text x="%s" y="%d" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="500" fill="%s">%s</text>`,
				num(barX+float64(l.LabelPadding)), mid, escapeXML(cfg.Font.Family), cfg.Font.Bar, cfg.Colors.BarText, escapeXML(row.Name)))
		}
		svg.WriteString("</g>\n")
	}

	svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`+"\n",
		num(originX), num(originX), num(height), cfg.Colors.Divider))
	svg.WriteString("</svg>\n")
}

func writeHeader(svg *strings.Builder, width, height float64, cfg Config) {
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">
<rect width="100%%" height="100%%" fill="%s"/>
`, num(width), num(height), num(width), num(height), cfg.Colors.Background))
}

func tooltip(row Row) string {
	const layout = "Jan 02, 2006"
	name := row.Name
	if row.Tag != "" {
		name = fmt.Sprintf("%s (%s)", row.Name, row.Tag)
	}
	return fmt.Sprintf("%s\n%s - %s", name, row.Start.Format(layout), row.End.Format(layout))
}

// num formats a pixel value without a trailing ".0".
func num(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
