package timeline

import "errors"

var (
	// ErrUnknownGranularity indicates a granularity outside day/week/month/quarter/year.
	ErrUnknownGranularity = errors.New("unknown granularity")
	// ErrUnknownWeekday indicates an unparsable week start.
	ErrUnknownWeekday = errors.New("unknown weekday")
	// ErrNoBuckets is returned when positions are requested against an empty bucket sequence.
	ErrNoBuckets = errors.New("no buckets")
	// ErrOutsideSpan indicates a span that is not covered by the bucket sequence.
	ErrOutsideSpan = errors.New("span outside bucket range")
	// ErrInvalidColumnWidth indicates a column width that is not a positive finite number.
	ErrInvalidColumnWidth = errors.New("column width must be positive and finite")
)
