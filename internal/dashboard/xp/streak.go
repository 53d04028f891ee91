package xp

import "time"

// NextStreak advances a daily activity streak given the previous activity
// time. Activity on the same calendar day keeps the streak, activity on the
// next day extends it, anything longer restarts at 1. A zero lastActive
// starts a fresh streak.
func NextStreak(current int, lastActive, now time.Time) int {
	if lastActive.IsZero() {
		return 1
	}

	last := truncateToDay(lastActive)
	today := truncateToDay(now)

	switch days := int(today.Sub(last).Hours() / 24); {
	case days <= 0:
		if current < 1 {
			return 1
		}
		return current
	case days == 1:
		return current + 1
	default:
		return 1
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
