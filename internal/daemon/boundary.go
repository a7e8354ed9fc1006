package daemon

import "time"

// NextBoundary returns the delay from now until the next update boundary.
// Boundaries are the minute marks of the hour that are multiples of
// intervalMinutes (60, 40, 20 for an interval of 20, minute 60 being the
// top of the next hour). The wake lands on second 0 of a boundary minute;
// the result lies in [0, intervalMinutes).
//
// An interval that does not divide 60 is treated as 60.
func NextBoundary(intervalMinutes int, now time.Time) time.Duration {
	if intervalMinutes <= 0 || 60%intervalMinutes != 0 {
		intervalMinutes = 60
	}
	step := time.Duration(intervalMinutes) * time.Minute
	elapsed := time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())

	next := (elapsed + step - 1) / step * step
	return next - elapsed
}
