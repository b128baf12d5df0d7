package streak

import (
	"sort"
	"time"
)

// Current returns the number of consecutive calendar days with at least one
// review, counting backward from today. A streak is alive only while the
// most recent active day is today or yesterday; a single missed day beyond
// that resets it to zero. Days are calendar days in loc (nil means UTC).
func Current(reviewTimes []time.Time, now time.Time, loc *time.Location) int {
	loc = orUTC(loc)
	days := daySet(reviewTimes, loc)
	if len(days) == 0 {
		return 0
	}

	anchor := dayStart(now, loc)
	if !days[anchor.Unix()] {
		anchor = anchor.AddDate(0, 0, -1)
		if !days[anchor.Unix()] {
			return 0
		}
	}

	streak := 0
	for d := anchor; days[d.Unix()]; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// Longest returns the longest run of consecutive active calendar days
// anywhere in the history, alive or not.
func Longest(reviewTimes []time.Time, loc *time.Location) int {
	loc = orUTC(loc)
	days := daySet(reviewTimes, loc)
	if len(days) == 0 {
		return 0
	}

	starts := make([]time.Time, 0, len(days))
	for unix := range days {
		starts = append(starts, time.Unix(unix, 0).In(loc))
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	longest, run := 1, 1
	for i := 1; i < len(starts); i++ {
		if starts[i-1].AddDate(0, 0, 1).Equal(starts[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// DailyCounts aggregates review timestamps into per-day counts, keyed by
// the midnight that starts each calendar day in loc.
func DailyCounts(reviewTimes []time.Time, loc *time.Location) map[time.Time]int {
	loc = orUTC(loc)
	counts := make(map[time.Time]int)
	for _, t := range reviewTimes {
		counts[dayStart(t, loc)]++
	}
	return counts
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func daySet(times []time.Time, loc *time.Location) map[int64]bool {
	set := make(map[int64]bool, len(times))
	for _, t := range times {
		set[dayStart(t, loc).Unix()] = true
	}
	return set
}
