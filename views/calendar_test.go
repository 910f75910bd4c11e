package views

import (
	"testing"
	"time"

	"github.com/dayplan/dayplan-client/client"
)

func TestMonthRange_IncludesSpilloverDays(t *testing.T) {
	// August 2026 starts on a Saturday and ends on a Monday, so the rendered
	// grid spills into late July and early September.
	r := MonthRange(time.Date(2026, time.August, 12, 15, 30, 0, 0, time.UTC))

	if got := DayKey(r.Start); got != "2026-07-26" {
		t.Errorf("Start = %s, want 2026-07-26", got)
	}
	if got := DayKey(r.End); got != "2026-09-05" {
		t.Errorf("End = %s, want 2026-09-05", got)
	}
	days := r.Days()
	if len(days) != 42 {
		t.Fatalf("grid has %d days, want 42 (6 full weeks)", len(days))
	}
	if days[0].Weekday() != time.Sunday {
		t.Errorf("grid starts on %s, want Sunday", days[0].Weekday())
	}
	if days[len(days)-1].Weekday() != time.Saturday {
		t.Errorf("grid ends on %s, want Saturday", days[len(days)-1].Weekday())
	}
}

func TestWeekRange(t *testing.T) {
	// A mid-week Wednesday.
	r := WeekRange(time.Date(2026, time.August, 12, 9, 0, 0, 0, time.UTC))
	if got := DayKey(r.Start); got != "2026-08-09" {
		t.Errorf("Start = %s, want 2026-08-09", got)
	}
	if got := DayKey(r.End); got != "2026-08-15" {
		t.Errorf("End = %s, want 2026-08-15", got)
	}
	if n := len(r.Days()); n != 7 {
		t.Errorf("week has %d days, want 7", n)
	}
}

func TestRange_ContainsIsInclusive(t *testing.T) {
	r := Range{
		Start: time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
	}
	tests := []struct {
		date string
		want bool
	}{
		{"2026-08-09", true}, // first day
		{"2026-08-15", true}, // last day
		{"2026-08-12", true},
		{"2026-08-08", false},
		{"2026-08-16", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.date); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestVisibleTasks_RequiresDueDateInRange(t *testing.T) {
	r := WeekRange(time.Date(2026, time.August, 12, 0, 0, 0, 0, time.UTC))
	tasks := []client.Task{
		dated("t-1", "2026-08-10"),
		dated("t-2", "2026-08-20"),
		dated("t-3", ""), // undated tasks never appear on the calendar
		dated("t-4", "2026-08-15"),
	}
	got := VisibleTasks(tasks, r)
	if !sameOrder(got, "t-1", "t-4") {
		t.Errorf("visible = %v, want t-1, t-4", ids(got))
	}
}

func TestMonthView_SpilloverTaskIsBucketed(t *testing.T) {
	r := MonthRange(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))
	tasks := []client.Task{
		dated("t-1", "2026-07-26"), // first spillover day of the grid
		dated("t-2", "2026-08-15"),
		dated("t-3", "2026-07-20"), // before the grid
	}
	buckets := BucketByDay(VisibleTasks(tasks, r))
	if day := buckets["2026-07-26"]; len(day) != 1 || day[0].ID != "t-1" {
		t.Errorf("spillover bucket = %v, want t-1", ids(day))
	}
	if _, ok := buckets["2026-07-20"]; ok {
		t.Error("task before the grid leaked into the view")
	}
}

func TestBucketByDay(t *testing.T) {
	tasks := []client.Task{
		dated("t-1", "2026-08-10"),
		dated("t-2", "2026-08-10"),
		dated("t-3", "2026-08-11"),
		dated("t-4", ""),
	}
	buckets := BucketByDay(tasks)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if day := buckets["2026-08-10"]; len(day) != 2 || day[0].ID != "t-1" || day[1].ID != "t-2" {
		t.Errorf("2026-08-10 bucket = %v", ids(day))
	}
	if day := buckets["2026-08-11"]; len(day) != 1 || day[0].ID != "t-3" {
		t.Errorf("2026-08-11 bucket = %v", ids(day))
	}
}

func TestMonthRange_ExactWeeksStayTight(t *testing.T) {
	// February 2026 starts on a Sunday and ends on a Saturday: no spillover.
	r := MonthRange(time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC))
	if got := DayKey(r.Start); got != "2026-02-01" {
		t.Errorf("Start = %s, want 2026-02-01", got)
	}
	if got := DayKey(r.End); got != "2026-02-28" {
		t.Errorf("End = %s, want 2026-02-28", got)
	}
	if n := len(r.Days()); n != 28 {
		t.Errorf("grid has %d days, want 28", n)
	}
}
