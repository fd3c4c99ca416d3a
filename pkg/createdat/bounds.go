package createdat

import "time"

// DefaultMinYear is the earliest year not flagged as suspicious.
const DefaultMinYear = 1945

// Bounds is the inclusive range of plausible capture years. A year outside
// the range is worth a warning; it is never a parse failure.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds returns [DefaultMinYear, now.Year()+1].
func DefaultBounds(now time.Time) Bounds {
	return Bounds{Min: DefaultMinYear, Max: now.Year() + 1}
}

func (b Bounds) Contains(year int) bool {
	return year >= b.Min && year <= b.Max
}
