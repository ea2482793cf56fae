package timeline_test

import (
	"math"
	"testing"
	"time"

	"github.com/rpggio/ganttline/internal/timeline"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func span(t *testing.T, start, end string) timeline.Span {
	t.Helper()
	return timeline.Span{Start: mustDate(t, start), End: mustDate(t, end)}
}

func TestGenerate_Empty(t *testing.T) {
	for _, g := range timeline.Granularities() {
		buckets, err := timeline.Generate(nil, g)
		require.NoError(t, err)
		require.Empty(t, buckets)
	}
}

func TestGenerate_UnknownGranularity(t *testing.T) {
	_, err := timeline.Generate([]timeline.Span{span(t, "2025-01-01", "2025-01-02")}, "fortnight")
	require.ErrorIs(t, err, timeline.ErrUnknownGranularity)
}

func TestGenerate_WeekScenario(t *testing.T) {
	spans := []timeline.Span{
		span(t, "2025-01-15", "2025-03-15"),
		span(t, "2025-02-01", "2025-05-30"),
	}

	buckets, err := timeline.Generate(spans, timeline.Week)
	require.NoError(t, err)
	require.Len(t, buckets, 20)
	require.Equal(t, mustDate(t, "2025-01-12"), buckets[0].Date)
	require.Equal(t, "Jan 12", buckets[0].Label)
	require.Equal(t, mustDate(t, "2025-05-25"), buckets[len(buckets)-1].Date)
	for i := 1; i < len(buckets); i++ {
		require.Equal(t, buckets[i-1].Date.AddDate(0, 0, 7), buckets[i].Date)
	}

	first, err := timeline.Position(spans[0], buckets, timeline.Week)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 0, EndIndex: 9}, first)

	second, err := timeline.Position(spans[1], buckets, timeline.Week)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 2, EndIndex: 19}, second)
}

func TestGenerate_WeekScenarioMondayStart(t *testing.T) {
	engine := timeline.NewEngine(timeline.WithWeekStart(time.Monday))
	spans := []timeline.Span{
		span(t, "2025-01-15", "2025-03-15"),
		span(t, "2025-02-01", "2025-05-30"),
	}

	buckets, err := engine.Generate(spans, timeline.Week)
	require.NoError(t, err)
	require.Len(t, buckets, 20)
	require.Equal(t, time.Monday, buckets[0].Date.Weekday())
	require.Equal(t, mustDate(t, "2025-01-13"), buckets[0].Date)
	require.Equal(t, mustDate(t, "2025-05-26"), buckets[len(buckets)-1].Date)
}

func TestGenerate_MonthScenario(t *testing.T) {
	s := span(t, "2025-01-01", "2025-02-15")
	buckets, err := timeline.Generate([]timeline.Span{s}, timeline.Month)
	require.NoError(t, err)
	require.Equal(t, []timeline.Bucket{
		{Date: mustDate(t, "2025-01-01"), Label: "Jan 2025"},
		{Date: mustDate(t, "2025-02-01"), Label: "Feb 2025"},
	}, buckets)

	pos, err := timeline.Position(s, buckets, timeline.Month)
	require.NoError(t, err)
	require.Equal(t, 0, pos.StartIndex)
	require.Equal(t, 1, pos.EndIndex)
	require.Equal(t, 2, pos.Width())
}

func TestGenerate_QuarterScenario(t *testing.T) {
	s := span(t, "2025-03-01", "2025-04-15")
	buckets, err := timeline.Generate([]timeline.Span{s}, timeline.Quarter)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, "Q1 2025", buckets[0].Label)
	require.Equal(t, "Q2 2025", buckets[1].Label)

	pos, err := timeline.Position(s, buckets, timeline.Quarter)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 0, EndIndex: 1}, pos)
}

func TestGenerate_YearSpansCalendarYears(t *testing.T) {
	s := span(t, "2024-11-01", "2026-02-01")
	buckets, err := timeline.Generate([]timeline.Span{s}, timeline.Year)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	require.Equal(t, []string{"2024", "2025", "2026"}, labels(buckets))

	pos, err := timeline.Position(s, buckets, timeline.Year)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 0, EndIndex: 2}, pos)
}

func TestPosition_DayDegenerate(t *testing.T) {
	s := span(t, "2025-01-15", "2025-01-15")
	buckets, err := timeline.Generate([]timeline.Span{s}, timeline.Day)
	require.NoError(t, err)
	require.Len(t, buckets, 7)
	require.Equal(t, "Sun 12", buckets[0].Label)
	require.Equal(t, "Sat 18", buckets[6].Label)

	pos, err := timeline.Position(s, buckets, timeline.Day)
	require.NoError(t, err)
	require.Equal(t, pos.StartIndex, pos.EndIndex)
	require.Equal(t, 3, pos.StartIndex)
	require.Equal(t, 1, pos.Width())
}

func TestPosition_InvertedRangeKeepsMinimumWidth(t *testing.T) {
	s := span(t, "2025-01-20", "2025-01-15")
	for _, g := range timeline.Granularities() {
		buckets, err := timeline.Generate([]timeline.Span{s}, g)
		require.NoError(t, err)
		require.NotEmpty(t, buckets, g)

		pos, err := timeline.Position(s, buckets, g)
		require.NoError(t, err)
		require.LessOrEqual(t, pos.StartIndex, pos.EndIndex, g)
		require.GreaterOrEqual(t, pos.Width(), 1, g)
	}

	buckets, err := timeline.Generate([]timeline.Span{s}, timeline.Day)
	require.NoError(t, err)
	pos, err := timeline.Position(s, buckets, timeline.Day)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 8, EndIndex: 8}, pos)
}

func TestPosition_LookupFallbacks(t *testing.T) {
	buckets, err := timeline.Generate([]timeline.Span{span(t, "2025-01-01", "2025-02-28")}, timeline.Month)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// End beyond the generated range falls back to the last bucket.
	pos, err := timeline.Position(span(t, "2025-01-10", "2025-06-01"), buckets, timeline.Month)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 0, EndIndex: 1}, pos)

	// Start before the range falls back to the first bucket.
	pos, err = timeline.Position(span(t, "2024-06-01", "2025-02-03"), buckets, timeline.Month)
	require.NoError(t, err)
	require.Equal(t, timeline.PositionRange{StartIndex: 0, EndIndex: 1}, pos)
}

func TestPosition_ArithmeticClamp(t *testing.T) {
	buckets, err := timeline.Generate([]timeline.Span{span(t, "2025-02-03", "2025-02-20")}, timeline.Week)
	require.NoError(t, err)

	pos, err := timeline.Position(span(t, "2025-01-29", "2025-04-01"), buckets, timeline.Week)
	require.NoError(t, err)
	require.Equal(t, 0, pos.StartIndex)
	require.Equal(t, len(buckets)-1, pos.EndIndex)
}

func TestPosition_NoBuckets(t *testing.T) {
	_, err := timeline.Position(span(t, "2025-01-01", "2025-01-02"), nil, timeline.Day)
	require.ErrorIs(t, err, timeline.ErrNoBuckets)
}

func TestPosition_DoesNotMutateBuckets(t *testing.T) {
	s := span(t, "2025-03-01", "2025-04-15")
	buckets, err := timeline.Generate([]timeline.Span{s}, timeline.Quarter)
	require.NoError(t, err)
	snapshot := append([]timeline.Bucket(nil), buckets...)

	_, err = timeline.Position(span(t, "2024-01-01", "2027-01-01"), buckets, timeline.Quarter)
	require.NoError(t, err)
	require.Equal(t, snapshot, buckets)
}

func TestCheckSpan(t *testing.T) {
	engine := timeline.NewEngine()
	s := span(t, "2025-01-01", "2025-02-15")
	buckets, err := engine.Generate([]timeline.Span{s}, timeline.Month)
	require.NoError(t, err)

	require.NoError(t, engine.CheckSpan(s, buckets, timeline.Month))
	require.NoError(t, engine.CheckSpan(span(t, "2025-02-28", "2025-02-28"), buckets, timeline.Month))
	require.ErrorIs(t, engine.CheckSpan(span(t, "2025-01-01", "2025-03-01"), buckets, timeline.Month), timeline.ErrOutsideSpan)
	require.ErrorIs(t, engine.CheckSpan(span(t, "2024-12-31", "2025-01-05"), buckets, timeline.Month), timeline.ErrOutsideSpan)
	require.ErrorIs(t, engine.CheckSpan(s, nil, timeline.Month), timeline.ErrNoBuckets)
}

func TestLayout(t *testing.T) {
	engine := timeline.NewEngine()
	spans := []timeline.Span{
		span(t, "2025-01-01", "2025-02-15"),
		span(t, "2025-03-01", "2025-04-15"),
	}

	layout, err := engine.Layout(spans, timeline.Month, 100)
	require.NoError(t, err)
	require.Equal(t, timeline.Month, layout.Granularity)
	require.Len(t, layout.Buckets, 4)
	require.Equal(t, 400.0, layout.Width)
	require.Len(t, layout.Bars, 2)

	require.Equal(t, timeline.PositionRange{StartIndex: 0, EndIndex: 1}, layout.Bars[0].Range)
	require.Equal(t, 0.0, layout.Bars[0].Left)
	require.Equal(t, 200.0, layout.Bars[0].Width)

	require.Equal(t, timeline.PositionRange{StartIndex: 2, EndIndex: 3}, layout.Bars[1].Range)
	require.Equal(t, 200.0, layout.Bars[1].Left)
	require.Equal(t, 200.0, layout.Bars[1].Width)
}

func TestLayout_EmptyAndInvalidWidth(t *testing.T) {
	engine := timeline.NewEngine()
	layout, err := engine.Layout(nil, timeline.Week, 50)
	require.NoError(t, err)
	require.Empty(t, layout.Buckets)
	require.Empty(t, layout.Bars)
	require.Zero(t, layout.Width)

	spans := []timeline.Span{span(t, "2025-01-15", "2025-03-15")}
	for _, width := range []float64{0, -10, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = engine.Layout(spans, timeline.Week, width)
		require.ErrorIs(t, err, timeline.ErrInvalidColumnWidth, "width %v", width)
	}
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]timeline.Granularity{
		"day":       timeline.Day,
		"Weeks":     timeline.Week,
		" months ":  timeline.Month,
		"quarters":  timeline.Quarter,
		"year":      timeline.Year,
	} {
		got, err := timeline.ParseGranularity(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := timeline.ParseGranularity("hours")
	require.ErrorIs(t, err, timeline.ErrUnknownGranularity)
	require.Equal(t, "weeks", timeline.Week.TimeScale())
	require.False(t, timeline.Granularity("hour").Valid())
}

func labels(buckets []timeline.Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}
