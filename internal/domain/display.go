package domain

import "time"

// DisplayFormat renders instants as the date and time strings stored on a
// Registration. DisplayDate doubles as the day key for statistics, so two
// entries fall on the same day iff their formatted dates are equal.
type DisplayFormat struct {
	DateLayout string
	TimeLayout string
	Location   *time.Location
}

// DefaultDisplayFormat uses day.month.year, 24h clock and the local zone.
func DefaultDisplayFormat() DisplayFormat {
	return DisplayFormat{DateLayout: "02.01.2006", TimeLayout: "15:04", Location: time.Local}
}

// Date formats t with DateLayout in the configured zone.
func (f DisplayFormat) Date(t time.Time) string {
	return t.In(f.location()).Format(f.DateLayout)
}

// Time formats t with TimeLayout in the configured zone.
func (f DisplayFormat) Time(t time.Time) string {
	return t.In(f.location()).Format(f.TimeLayout)
}

// In converts t into the configured zone.
func (f DisplayFormat) In(t time.Time) time.Time {
	return t.In(f.location())
}

func (f DisplayFormat) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}
