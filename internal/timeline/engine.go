package timeline

import (
	"fmt"
	"math"
	"time"
)

// Span is an inclusive [Start, End] date range. Start after End is tolerated.
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bucket is one timeline column: the start of its period and a display label.
type Bucket struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// PositionRange is the inclusive bucket index span a bar occupies.
type PositionRange struct {
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

// Width returns the number of columns covered, never less than one.
func (p PositionRange) Width() int {
	if w := p.EndIndex - p.StartIndex + 1; w > 1 {
		return w
	}
	return 1
}

// Bar places one span on the timeline.
type Bar struct {
	Range PositionRange `json:"range"`
	Left  float64       `json:"left"`
	Width float64       `json:"width"`
}

// Layout is the complete geometry for one (spans, granularity, column width) snapshot.
// Bars are in the order of the input spans.
type Layout struct {
	Granularity Granularity `json:"granularity"`
	Buckets     []Bucket    `json:"buckets"`
	Bars        []Bar       `json:"bars"`
	ColumnWidth float64     `json:"column_width"`
	Width       float64     `json:"width"`
}

// Engine generates bucket sequences and bar positions. It holds only
// configuration and is safe for concurrent use.
type Engine struct {
	weekStart time.Weekday
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeekStart sets the first day of the week used by day and week alignment.
func WithWeekStart(d time.Weekday) Option {
	return func(e *Engine) {
		e.weekStart = d
	}
}

// NewEngine creates an engine. Weeks start on Sunday unless configured otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{weekStart: time.Sunday}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WeekStart returns the configured first day of the week.
func (e *Engine) WeekStart() time.Weekday {
	return e.weekStart
}

// Strategy returns the rules for g under this engine's week start.
func (e *Engine) Strategy(g Granularity) (Strategy, error) {
	return NewStrategy(g, e.weekStart)
}

// Generate returns the ordered, contiguous bucket sequence covering every span.
// An empty input yields an empty sequence.
func (e *Engine) Generate(spans []Span, g Granularity) ([]Bucket, error) {
	s, err := e.Strategy(g)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}

	minDate, maxDate := extent(spans)
	first, last := s.AlignRange(minDate, maxDate)

	var buckets []Bucket
	for cur := first; !cur.After(last); cur = s.Step(cur) {
		buckets = append(buckets, Bucket{Date: cur, Label: s.Label(cur)})
	}
	return buckets, nil
}

// Position maps span onto buckets. Lookup misses fall back to the first
// bucket for the start and the last bucket for the end; the result is
// clamped into the sequence and never narrower than one column.
func (e *Engine) Position(span Span, buckets []Bucket, g Granularity) (PositionRange, error) {
	s, err := e.Strategy(g)
	if err != nil {
		return PositionRange{}, err
	}
	n := len(buckets)
	if n == 0 {
		return PositionRange{}, ErrNoBuckets
	}

	start, ok := s.IndexOf(buckets, span.Start, EdgeStart)
	if !ok {
		start = 0
	}
	end, ok := s.IndexOf(buckets, span.End, EdgeEnd)
	if !ok {
		end = n - 1
	}

	start = clamp(start, 0, n-1)
	end = clamp(end, 0, n-1)
	if end < start {
		end = start
	}
	return PositionRange{StartIndex: start, EndIndex: end}, nil
}

// CheckSpan reports ErrOutsideSpan when either end of span falls outside the
// periods covered by buckets. Position never fails for this reason.
func (e *Engine) CheckSpan(span Span, buckets []Bucket, g Granularity) error {
	s, err := e.Strategy(g)
	if err != nil {
		return err
	}
	if len(buckets) == 0 {
		return ErrNoBuckets
	}

	lo := buckets[0].Date
	hi := s.Step(buckets[len(buckets)-1].Date)
	for _, d := range []time.Time{civil(span.Start), civil(span.End)} {
		if d.Before(lo) || !d.Before(hi) {
			return fmt.Errorf("%w: %s not in [%s, %s)", ErrOutsideSpan,
				d.Format(time.DateOnly), lo.Format(time.DateOnly), hi.Format(time.DateOnly))
		}
	}
	return nil
}

// Layout generates the buckets for spans and positions every span against them.
func (e *Engine) Layout(spans []Span, g Granularity, columnWidth float64) (Layout, error) {
	if !(columnWidth > 0) || math.IsInf(columnWidth, 0) {
		return Layout{}, ErrInvalidColumnWidth
	}
	buckets, err := e.Generate(spans, g)
	if err != nil {
		return Layout{}, err
	}

	layout := Layout{
		Granularity: g,
		Buckets:     buckets,
		Bars:        make([]Bar, 0, len(spans)),
		ColumnWidth: columnWidth,
		Width:       float64(len(buckets)) * columnWidth,
	}
	for _, span := range spans {
		pos, err := e.Position(span, buckets, g)
		if err != nil {
			return Layout{}, err
		}
		layout.Bars = append(layout.Bars, Bar{
			Range: pos,
			Left:  float64(pos.StartIndex) * columnWidth,
			Width: float64(pos.Width()) * columnWidth,
		})
	}
	return layout, nil
}

// extent returns the earliest and latest calendar day across all span
// endpoints, so inverted spans still produce a non-empty range.
func extent(spans []Span) (time.Time, time.Time) {
	minDate := civil(spans[0].Start)
	maxDate := minDate
	for _, span := range spans {
		for _, d := range []time.Time{civil(span.Start), civil(span.End)} {
			if d.Before(minDate) {
				minDate = d
			}
			if d.After(maxDate) {
				maxDate = d
			}
		}
	}
	return minDate, maxDate
}

var defaultEngine = NewEngine()

// Generate runs Engine.Generate with Sunday-start weeks.
func Generate(spans []Span, g Granularity) ([]Bucket, error) {
	return defaultEngine.Generate(spans, g)
}

// Position runs Engine.Position with Sunday-start weeks.
func Position(span Span, buckets []Bucket, g Granularity) (PositionRange, error) {
	return defaultEngine.Position(span, buckets, g)
}
