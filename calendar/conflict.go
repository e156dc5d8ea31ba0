package calendar

import "time"

// Overlaps reports whether the candidate [start, end) slot intersects any
// existing meeting. Intervals are half-open, so a meeting ending exactly when
// another begins does not conflict.
//
// Linear scan; the store is bounded by the 60-day horizon of business-hour
// slots, so no interval index is warranted.
func Overlaps(start, end time.Time, existing []Meeting) bool {
	for _, m := range existing {
		if start.Before(m.End) && end.After(m.Start) {
			return true
		}
	}
	return false
}
