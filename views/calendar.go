package views

import (
	"time"

	"github.com/dayplan/dayplan-client/client"
)

// DayFormat is the calendar-date key format used throughout the wire and the
// cache.
const DayFormat = "2006-01-02"

// Range is a closed interval of calendar days. Start and End are midnight
// instants; both days are visible.
type Range struct {
	Start time.Time
	End   time.Time
}

// MonthRange returns the days a month view renders for ref: full weeks
// spanning the month, so spillover days from adjacent months are included.
// Weeks run Sunday through Saturday.
func MonthRange(ref time.Time) Range {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)
	return Range{Start: startOfWeek(first), End: endOfWeek(last)}
}

// WeekRange returns the 7 days of the week containing ref.
func WeekRange(ref time.Time) Range {
	day := truncateDay(ref)
	return Range{Start: startOfWeek(day), End: endOfWeek(day)}
}

// Days lists every calendar day in the range, in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether a YYYY-MM-DD date falls within the range,
// inclusive on both ends. Malformed dates are never visible.
func (r Range) Contains(date string) bool {
	d, err := time.ParseInLocation(DayFormat, date, r.Start.Location())
	if err != nil {
		return false
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

// Within reports whether a task is visible in the range: it must have a due
// date inside the closed interval.
func Within(t client.Task, r Range) bool {
	return t.DueDate != nil && r.Contains(*t.DueDate)
}

// VisibleTasks returns the tasks visible in the range, preserving input order.
func VisibleTasks(tasks []client.Task, r Range) []client.Task {
	out := make([]client.Task, 0, len(tasks))
	for _, t := range tasks {
		if Within(t, r) {
			out = append(out, t)
		}
	}
	return out
}

// BucketByDay groups tasks by due date. Tasks without a due date are absent
// from the result.
func BucketByDay(tasks []client.Task) map[string][]client.Task {
	buckets := make(map[string][]client.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		buckets[*t.DueDate] = append(buckets[*t.DueDate], t)
	}
	return buckets
}

// DayKey formats an instant as its calendar-date bucket key.
func DayKey(t time.Time) string {
	return t.Format(DayFormat)
}

func startOfWeek(t time.Time) time.Time {
	d := truncateDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func endOfWeek(t time.Time) time.Time {
	d := truncateDay(t)
	return d.AddDate(0, 0, int(time.Saturday-d.Weekday()))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
