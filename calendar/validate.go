package calendar

import "time"

// Validate checks a candidate [start, end) slot against the booking rules.
// Rules are evaluated in order and the first failure wins. All hour and
// weekday checks happen in loc, the single reference location for the whole
// calendar; no per-meeting timezone negotiation is performed.
//
// The end-of-day rule compares only the hour component of end: a meeting
// ending 16:59 passes while one ending exactly 17:00 fails.
//
// Validate is pure and deterministic given now. On failure it returns an
// *Error of KindValidation whose Message is the caller-facing rejection.
func Validate(start, end, now time.Time, loc *time.Location) error {
	if start.Before(now.Add(MinimumNotice)) {
		return NewError(KindValidation, "Meeting must be scheduled at least 1 hour in advance")
	}
	if start.After(now.AddDate(0, 0, MaximumFutureDays)) {
		return NewError(KindValidation, "Cannot schedule meetings more than 60 days in advance")
	}
	if h := start.In(loc).Hour(); h < BusinessHoursStart || h >= BusinessHoursEnd {
		return NewError(KindValidation, "Meetings can only be scheduled during business hours (9 AM - 5 PM)")
	}
	if end.In(loc).Hour() >= BusinessHoursEnd {
		return NewError(KindValidation, "Meeting would extend beyond business hours")
	}
	if wd := start.In(loc).Weekday(); wd == time.Saturday || wd == time.Sunday {
		return NewError(KindValidation, "Meetings cannot be scheduled on weekends")
	}
	return nil
}
