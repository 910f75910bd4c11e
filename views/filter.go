// Package views derives screen-visible task sets from a cached collection.
// Everything here is pure: same collection, filters, sort, and date range in,
// same slice out. Nothing reads or writes the store.
package views

import (
	"strings"

	"github.com/dayplan/dayplan-client/client"
)

// Matches reports whether a task passes every requested filter. All filters
// combine with AND. Search is a case-insensitive substring match against the
// description — substring, not token or fuzzy match. Tag matching is
// case-insensitive and ignores tag order.
func Matches(t client.Task, f client.Filters) bool {
	switch f.Status {
	case "", client.StatusAll:
	case client.StatusCompleted:
		if !t.Completed {
			return false
		}
	case client.StatusIncomplete:
		if t.Completed {
			return false
		}
	}

	if f.Priority != "" && f.Priority != "all" && t.Priority != f.Priority {
		return false
	}

	if f.Tag != "" {
		found := false
		for _, tag := range t.Tags {
			if strings.EqualFold(tag, f.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Search != "" {
		if !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
			return false
		}
	}

	return true
}

// Filter returns the tasks matching f, preserving input order.
func Filter(tasks []client.Task, f client.Filters) []client.Task {
	out := make([]client.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}

// Apply filters then sorts, producing the set visible to a list screen.
func Apply(tasks []client.Task, f client.Filters, s client.Sort) []client.Task {
	return SortTasks(Filter(tasks, f), s)
}

// Progress summarizes completion for a header line.
func Progress(tasks []client.Task) (completed, total, percent int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	if total > 0 {
		percent = completed * 100 / total
	}
	return completed, total, percent
}
