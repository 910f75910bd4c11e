package views

import (
	"testing"
	"time"

	"github.com/dayplan/dayplan-client/client"
)

func dated(id, due string) client.Task {
	t := client.Task{ID: id}
	if due != "" {
		t.DueDate = &due
	}
	return t
}

func ids(tasks []client.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sameOrder(got []client.Task, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].ID != want[i] {
			return false
		}
	}
	return true
}

func TestSortTasks_DueDateAbsentAlwaysLast(t *testing.T) {
	tasks := []client.Task{
		dated("t-1", ""),
		dated("t-2", "2026-08-20"),
		dated("t-3", "2026-08-05"),
		dated("t-4", ""),
	}

	asc := SortTasks(tasks, client.Sort{Field: client.SortDueDate, Direction: client.SortAsc})
	if !sameOrder(asc, "t-3", "t-2", "t-1", "t-4") {
		t.Errorf("asc order = %v", ids(asc))
	}

	desc := SortTasks(tasks, client.Sort{Field: client.SortDueDate, Direction: client.SortDesc})
	if !sameOrder(desc, "t-2", "t-3", "t-1", "t-4") {
		t.Errorf("desc order = %v; undated tasks must stay last", ids(desc))
	}
}

func TestSortTasks_Priority(t *testing.T) {
	tasks := []client.Task{
		{ID: "t-1", Priority: client.PriorityLow},
		{ID: "t-2", Priority: client.PriorityHigh},
		{ID: "t-3", Priority: client.PriorityMedium},
	}
	got := SortTasks(tasks, client.Sort{Field: client.SortPriority, Direction: client.SortAsc})
	if !sameOrder(got, "t-2", "t-3", "t-1") {
		t.Errorf("order = %v, want high, medium, low", ids(got))
	}

	got = SortTasks(tasks, client.Sort{Field: client.SortPriority, Direction: client.SortDesc})
	if !sameOrder(got, "t-1", "t-3", "t-2") {
		t.Errorf("desc order = %v", ids(got))
	}
}

func TestSortTasks_AlphabeticalIsCaseSensitive(t *testing.T) {
	tasks := []client.Task{
		{ID: "t-1", Description: "apple"},
		{ID: "t-2", Description: "Banana"},
		{ID: "t-3", Description: "cherry"},
	}
	got := SortTasks(tasks, client.Sort{Field: client.SortAlphabetical, Direction: client.SortAsc})
	// Uppercase sorts before lowercase in byte order.
	if !sameOrder(got, "t-2", "t-1", "t-3") {
		t.Errorf("order = %v, want Banana, apple, cherry", ids(got))
	}
}

func TestSortTasks_CreatedAt(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tasks := []client.Task{
		{ID: "t-1", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "t-2", CreatedAt: base},
		{ID: "t-3", CreatedAt: base.Add(time.Hour)},
	}
	got := SortTasks(tasks, client.Sort{Field: client.SortCreatedAt, Direction: client.SortAsc})
	if !sameOrder(got, "t-2", "t-3", "t-1") {
		t.Errorf("order = %v", ids(got))
	}
}

func TestSortTasks_IDTieBreakNeverFlips(t *testing.T) {
	due := "2026-08-10"
	tasks := []client.Task{
		{ID: "t-2", DueDate: &due},
		{ID: "t-1", DueDate: &due},
		{ID: "t-3", DueDate: &due},
	}
	for _, dir := range []client.SortDirection{client.SortAsc, client.SortDesc} {
		got := SortTasks(tasks, client.Sort{Field: client.SortDueDate, Direction: dir})
		if !sameOrder(got, "t-1", "t-2", "t-3") {
			t.Errorf("direction %s: order = %v, want id order", dir, ids(got))
		}
	}
}

func TestSortTasks_DoesNotMutateInput(t *testing.T) {
	tasks := []client.Task{
		{ID: "t-2", Description: "b"},
		{ID: "t-1", Description: "a"},
	}
	_ = SortTasks(tasks, client.Sort{Field: client.SortAlphabetical, Direction: client.SortAsc})
	if tasks[0].ID != "t-2" {
		t.Error("SortTasks mutated its input")
	}
}

func TestSortTasks_EmptyFieldPreservesOrder(t *testing.T) {
	tasks := []client.Task{{ID: "t-9"}, {ID: "t-1"}}
	got := SortTasks(tasks, client.Sort{})
	if !sameOrder(got, "t-9", "t-1") {
		t.Errorf("order = %v, want input order", ids(got))
	}
}
