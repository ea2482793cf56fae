package timeline

import (
	"fmt"
	"strings"
)

// Granularity is the calendar period size used for bucketing.
type Granularity string

const (
	Day     Granularity = "day"
	Week    Granularity = "week"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

var granularities = []Granularity{Day, Week, Month, Quarter, Year}

// Granularities returns every supported granularity from finest to coarsest.
func Granularities() []Granularity {
	out := make([]Granularity, len(granularities))
	copy(out, granularities)
	return out
}

// ParseGranularity accepts singular names and the plural time-scale names
// found in chart exports ("weeks", "quarters", ...).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "days":
		return Day, nil
	case "week", "weeks":
		return Week, nil
	case "month", "months":
		return Month, nil
	case "quarter", "quarters":
		return Quarter, nil
	case "year", "years":
		return Year, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
}

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	for _, known := range granularities {
		if g == known {
			return true
		}
	}
	return false
}

// TimeScale returns the plural name used by chart exports.
func (g Granularity) TimeScale() string {
	if !g.Valid() {
		return string(g)
	}
	return string(g) + "s"
}

func (g Granularity) String() string {
	return string(g)
}
