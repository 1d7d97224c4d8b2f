package model

import (
	"errors"
	"time"
)

var ErrEndNotAfterStart = errors.New("end date must be after start date")

// DateRange is a stay interval over calendar dates, inclusive on both ends. A
// booking occupies every night from Start up to and including End, so two stays
// that merely touch on a boundary date still collide.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both dates to midnight UTC and requires end to be
// strictly after start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = normalize(start)
	end = normalize(end)

	if !end.After(start) {
		return DateRange{}, ErrEndNotAfterStart
	}

	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether two closed intervals share at least one date:
// [a1,a2] and [b1,b2] overlap unless a2 < b1 or b2 < a1.
func (r DateRange) Overlaps(other DateRange) bool {
	return !(r.End.Before(other.Start) || other.End.Before(r.Start))
}

func normalize(t time.Time) time.Time {
	year, month, day := t.UTC().Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
