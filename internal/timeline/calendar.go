package timeline

import (
	"fmt"
	"strings"
	"time"
)

const daysPerWeek = 7

const oneDay = 24 * time.Hour

// civil drops the clock and zone of t, keeping its calendar day as midnight UTC.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Civil returns the calendar day of t as midnight UTC.
func Civil(t time.Time) time.Time {
	return civil(t)
}

func startOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	t = civil(t)
	offset := (int(t.Weekday()) - int(weekStart) + daysPerWeek) % daysPerWeek
	return t.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func startOfQuarter(t time.Time) time.Time {
	first := time.Month((quarterOf(t)-1)*3 + 1)
	return time.Date(t.Year(), first, 1, 0, 0, 0, 0, time.UTC)
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from one date to another; negative when to precedes from.
func daysBetween(from, to time.Time) int {
	return int(civil(to).Sub(civil(from)) / oneDay)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseWeekStart parses a weekday name ("sunday", "Mon", ...).
func ParseWeekStart(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}
