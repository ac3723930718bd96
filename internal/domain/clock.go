package domain

import "time"

// Clock returns the current time. Repositories take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// NextUpdateTime returns now at microsecond precision, or prev plus one
// microsecond when now is not after prev. Last Updated therefore strictly
// increases for a row even if the clock stalls or steps backwards.
func NextUpdateTime(now, prev time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if !prev.IsZero() && !now.After(prev) {
		return prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}
