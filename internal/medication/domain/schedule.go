package domain

import (
	"sort"
	"time"
)

// OccurrencesInWindow generates every dose instant of the schedule inside
// the half-open interval [windowStart, windowEnd). Pure function of its
// inputs: identical arguments yield the identical ordered slice.
//
// Doses are equally spaced inside one repeat cycle. Because a queried window
// (typically one local day) can straddle a cycle boundary, the cycle covering
// windowStart and the one after it are both expanded before filtering.
// A misconfigured schedule (non-positive dose count, unknown interval unit)
// yields no occurrences rather than an error.
func OccurrencesInWindow(schedule Schedule, windowStart, windowEnd time.Time) []time.Time {
	doses := make([]time.Time, 0, schedule.DosesPerInterval)

	if schedule.DosesPerInterval <= 0 {
		return doses
	}
	interval, ok := schedule.IntervalUnit.Length()
	if !ok {
		return doses
	}

	spacing := interval / time.Duration(schedule.DosesPerInterval)
	firstIntake := schedule.FirstIntake

	appendInWindow := func(cycleStart time.Time) {
		for i := 0; i < schedule.DosesPerInterval; i++ {
			doseTime := cycleStart.Add(time.Duration(i) * spacing)
			if !doseTime.Before(windowStart) && doseTime.Before(windowEnd) {
				doses = append(doses, doseTime)
			}
		}
	}

	if windowStart.Before(firstIntake) {
		// Schedule starts in the future; only its first cycle can reach
		// into this window.
		if !firstIntake.After(windowEnd) {
			appendInWindow(firstIntake)
		}
	} else {
		elapsed := windowStart.Sub(firstIntake)
		completedIntervals := elapsed / interval
		cycleStart := firstIntake.Add(completedIntervals * interval)

		appendInWindow(cycleStart)

		nextCycleStart := cycleStart.Add(interval)
		if nextCycleStart.Before(windowEnd) {
			appendInWindow(nextCycleStart)
		}
	}

	if schedule.StopTime != nil {
		stopped := *schedule.StopTime
		kept := doses[:0]
		for _, dose := range doses {
			if !dose.After(stopped) {
				kept = append(kept, dose)
			}
		}
		doses = kept
	}

	sort.Slice(doses, func(i, j int) bool { return doses[i].Before(doses[j]) })
	return doses
}
