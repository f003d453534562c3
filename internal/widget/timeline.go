package widget

import "time"

// Default refresh cadence: every six hours across one day.
const (
	DefaultInterval = 6 * time.Hour
	DefaultWindow   = 24 * time.Hour
)

// Scheduler computes when the widget should be re-evaluated.
type Scheduler struct {
	Interval time.Duration
	Window   time.Duration
}

// NewScheduler returns a Scheduler, substituting defaults for non-positive
// durations.
func NewScheduler(interval, window time.Duration) Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return Scheduler{Interval: interval, Window: window}
}

// Schedule returns the refresh instants at, at+Interval, ... strictly inside
// the window, and the instant after which the host should ask for a new
// timeline (the start of the next calendar day in at's location).
func (s Scheduler) Schedule(at time.Time) (instants []time.Time, reloadAfter time.Time) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	for offset := time.Duration(0); offset < s.Window; offset += interval {
		instants = append(instants, at.Add(offset))
	}
	if len(instants) == 0 {
		instants = []time.Time{at}
	}
	return instants, StartOfNextDay(at)
}

// StartOfNextDay returns midnight following at, in at's location.
func StartOfNextDay(at time.Time) time.Time {
	y, m, d := at.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, at.Location())
}

// Rotate returns a copy of s shifted left by n positions.
func Rotate[T any](s []T, n int) []T {
	out := make([]T, len(s))
	if len(s) == 0 {
		return out
	}
	n %= len(s)
	copy(out, s[n:])
	copy(out[len(s)-n:], s[:n])
	return out
}
