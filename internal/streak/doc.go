// Package streak derives consecutive-day review streaks and daily activity
// aggregates from review timestamps. Everything here is pure: callers pass
// the timestamps, the reference clock, and the location whose calendar days
// define a "day", and get values back with no I/O.
package streak
