package synth

import (
	"strings"
	"time"
)

// defaultMaturation is used when the question text carries no recognized
// deadline marker.
const defaultMaturation = 7 * 24 * time.Hour

// MaturesAt derives the resolution deadline from the time reference embedded
// in the question text.
func MaturesAt(text string, now time.Time) time.Time {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "tomorrow"):
		return now.Add(24 * time.Hour)
	case strings.Contains(lower, "weekend"):
		return nextWeekday(now, time.Sunday)
	case strings.Contains(lower, "saturday"):
		return nextWeekday(now, time.Saturday)
	case strings.Contains(lower, "this week"):
		return now.Add(defaultMaturation)
	}
	return now.Add(defaultMaturation)
}

// nextWeekday returns the next occurrence of day strictly after now's date,
// or a week later when now already is that day.
func nextWeekday(now time.Time, day time.Weekday) time.Time {
	days := (int(day) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}
