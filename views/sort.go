package views

import (
	"sort"
	"strings"

	"github.com/dayplan/dayplan-client/client"
)

// priorityRank orders high before medium before low in ascending direction.
var priorityRank = map[client.Priority]int{
	client.PriorityHigh:   1,
	client.PriorityMedium: 2,
	client.PriorityLow:    3,
}

// SortTasks returns a sorted copy of tasks. The sort is stable; ties on the
// primary key break by task id so the order is reproducible. Direction flips
// the primary comparator only — tasks without a due date sort after dated
// ones in both directions, and the id tie-break never flips. Alphabetical
// compares descriptions case-sensitively; this is a deliberate contract
// choice, asserted in tests.
func SortTasks(tasks []client.Task, s client.Sort) []client.Task {
	out := make([]client.Task, len(tasks))
	copy(out, tasks)
	if s.Field == "" {
		return out
	}

	desc := s.Direction == client.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		// Absent due dates go last regardless of direction.
		if s.Field == client.SortDueDate {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return a.ID < b.ID
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			}
		}

		c := compare(a, b, s.Field)
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
	return out
}

func compare(a, b client.Task, field client.SortField) int {
	switch field {
	case client.SortDueDate:
		// Dates are YYYY-MM-DD, so lexicographic order is temporal order.
		return strings.Compare(*a.DueDate, *b.DueDate)
	case client.SortCreatedAt:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	case client.SortPriority:
		return rankOf(a.Priority) - rankOf(b.Priority)
	case client.SortAlphabetical:
		return strings.Compare(a.Description, b.Description)
	}
	return 0
}

func rankOf(p client.Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	// Unknown priorities sort last.
	return len(priorityRank) + 1
}
