package timeline

import (
	"fmt"
	"time"
)

// Edge selects which end of a span is being mapped onto the bucket sequence.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// Strategy holds the alignment, stepping, labelling and index rules of one granularity.
type Strategy interface {
	Granularity() Granularity
	// AlignRange snaps [min, max] outward and returns the start of the first
	// and of the last period covering it.
	AlignRange(min, max time.Time) (first, last time.Time)
	// Step returns the start of the period following the one starting at t.
	Step(t time.Time) time.Time
	Label(t time.Time) string
	// IndexOf maps date onto buckets. matched is false when no bucket period
	// contains date and the strategy resolves indices by lookup.
	IndexOf(buckets []Bucket, date time.Time, edge Edge) (index int, matched bool)
}

// NewStrategy returns the strategy for g. weekStart only affects day and week alignment.
func NewStrategy(g Granularity, weekStart time.Weekday) (Strategy, error) {
	switch g {
	case Day:
		return dayStrategy{weekStart: weekStart}, nil
	case Week:
		return weekStrategy{weekStart: weekStart}, nil
	case Month:
		return monthStrategy{}, nil
	case Quarter:
		return quarterStrategy{}, nil
	case Year:
		return yearStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGranularity, string(g))
	}
}

// dayStrategy aligns to whole weeks so the day grid lines up with the week grid.
type dayStrategy struct {
	weekStart time.Weekday
}

func (dayStrategy) Granularity() Granularity { return Day }

func (s dayStrategy) AlignRange(min, max time.Time) (time.Time, time.Time) {
	return startOfWeek(min, s.weekStart), startOfWeek(max, s.weekStart).AddDate(0, 0, daysPerWeek-1)
}

func (dayStrategy) Step(t time.Time) time.Time { return t.AddDate(0, 0, 1) }

func (dayStrategy) Label(t time.Time) string { return t.Format("Mon 02") }

func (dayStrategy) IndexOf(buckets []Bucket, date time.Time, _ Edge) (int, bool) {
	return daysBetween(buckets[0].Date, date), true
}

type weekStrategy struct {
	weekStart time.Weekday
}

func (weekStrategy) Granularity() Granularity { return Week }

func (s weekStrategy) AlignRange(min, max time.Time) (time.Time, time.Time) {
	return startOfWeek(min, s.weekStart), startOfWeek(max, s.weekStart)
}

func (weekStrategy) Step(t time.Time) time.Time { return t.AddDate(0, 0, daysPerWeek) }

func (weekStrategy) Label(t time.Time) string { return t.Format("Jan 02") }

// IndexOf floors the start and ceils the end so partial weeks keep their column.
func (weekStrategy) IndexOf(buckets []Bucket, date time.Time, edge Edge) (int, bool) {
	diff := daysBetween(buckets[0].Date, date)
	if edge == EdgeEnd {
		return ceilDiv(diff, daysPerWeek), true
	}
	return floorDiv(diff, daysPerWeek), true
}

type monthStrategy struct{}

func (monthStrategy) Granularity() Granularity { return Month }

func (monthStrategy) AlignRange(min, max time.Time) (time.Time, time.Time) {
	return startOfMonth(min), startOfMonth(max)
}

func (monthStrategy) Step(t time.Time) time.Time { return t.AddDate(0, 1, 0) }

func (monthStrategy) Label(t time.Time) string { return t.Format("Jan 2006") }

func (monthStrategy) IndexOf(buckets []Bucket, date time.Time, _ Edge) (int, bool) {
	return lookup(buckets, date, startOfMonth)
}

type quarterStrategy struct{}

func (quarterStrategy) Granularity() Granularity { return Quarter }

func (quarterStrategy) AlignRange(min, max time.Time) (time.Time, time.Time) {
	return startOfQuarter(min), startOfQuarter(max)
}

func (quarterStrategy) Step(t time.Time) time.Time { return t.AddDate(0, 3, 0) }

func (quarterStrategy) Label(t time.Time) string {
	return fmt.Sprintf("Q%d %d", quarterOf(t), t.Year())
}

func (quarterStrategy) IndexOf(buckets []Bucket, date time.Time, _ Edge) (int, bool) {
	return lookup(buckets, date, startOfQuarter)
}

type yearStrategy struct{}

func (yearStrategy) Granularity() Granularity { return Year }

func (yearStrategy) AlignRange(min, max time.Time) (time.Time, time.Time) {
	return startOfYear(min), startOfYear(max)
}

func (yearStrategy) Step(t time.Time) time.Time { return t.AddDate(1, 0, 0) }

func (yearStrategy) Label(t time.Time) string { return t.Format("2006") }

func (yearStrategy) IndexOf(buckets []Bucket, date time.Time, _ Edge) (int, bool) {
	return lookup(buckets, date, startOfYear)
}

// lookup returns the first bucket whose period start equals the period start of date.
func lookup(buckets []Bucket, date time.Time, periodStart func(time.Time) time.Time) (int, bool) {
	want := periodStart(civil(date))
	for i, b := range buckets {
		if periodStart(b.Date).Equal(want) {
			return i, true
		}
	}
	return -1, false
}
