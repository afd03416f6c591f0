package models

import "time"

// Window is an optional [Start, End] range during which a record is in force.
// Either bound may be absent. Both bounds are inclusive.
type Window struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// NewWindow builds a window from optional bounds.
func NewWindow(start, end *time.Time) Window {
	return Window{Start: start, End: end}
}

// Started reports whether the window has begun at now. An absent start is always started.
func (w Window) Started(now time.Time) bool {
	return w.Start == nil || !w.Start.After(now)
}

// Expired reports whether the window has ended before now. An absent end never expires.
func (w Window) Expired(now time.Time) bool {
	return w.End != nil && w.End.Before(now)
}

// Contains reports whether now falls inside the window.
func (w Window) Contains(now time.Time) bool {
	return w.Started(now) && !w.Expired(now)
}

// Ordered reports whether start <= end when both are present.
func (w Window) Ordered() bool {
	if w.Start == nil || w.End == nil {
		return true
	}
	return !w.Start.After(*w.End)
}

// Days returns the window as calendar days, so a date-only end stays in force for the whole day.
func (w Window) Days() Window {
	out := Window{}
	if w.Start != nil {
		s := DayOf(*w.Start)
		out.Start = &s
	}
	if w.End != nil {
		e := DayOf(*w.End)
		out.End = &e
	}
	return out
}

// IsValid is the shared validity predicate: the record must be active and now inside the window.
func IsValid(active bool, w Window, now time.Time) bool {
	return active && w.Contains(now)
}

// IsValidOn is IsValid at calendar-day granularity.
func IsValidOn(active bool, w Window, now time.Time) bool {
	return active && w.Days().Contains(DayOf(now))
}

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns whole calendar days from a to b (negative when b is before a).
// Both ends are read as dates in a's location, so DST shifts never lose a day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// Date is a small helper for building date-only values.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
