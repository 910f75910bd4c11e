package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dayplan/dayplan-client/client"
	"github.com/dayplan/dayplan-client/store"
)

// TaskService issues task mutations through the optimistic protocol and
// serves task pages from the store. The active filter/sort state selects the
// cache key each call manipulates; any successful mutation additionally
// invalidates every other task signature, because the changed item's position
// under other filters cannot be derived locally.
type TaskService struct {
	remote *client.Client
	store  *store.Store
	engine *Engine

	now func() time.Time
}

// NewTaskService wires a TaskService over the given remote client and store.
func NewTaskService(rc *client.Client, st *store.Store) *TaskService {
	return &TaskService{
		remote: rc,
		store:  st,
		engine: NewEngine(st),
		now:    time.Now,
	}
}

// Tasks returns the page for the given filter/sort state. Fresh and pending
// payloads are served from cache (pending ones deliberately expose the
// speculative state of an in-flight mutation); missing or stale entries are
// refetched.
func (s *TaskService) Tasks(ctx context.Context, f client.Filters, srt client.Sort) (*client.TaskPage, error) {
	key := store.TasksKey(f, srt)
	if payload, state, ok := s.store.Get(key); ok && state != store.Stale {
		// A pending entry observed between Begin and Apply has no payload
		// yet; treat it like a miss.
		if page, ok := payload.(*client.TaskPage); ok {
			return page, nil
		}
	}
	page, err := s.remote.ListTasks(ctx, listParams(f, srt))
	if err != nil {
		return nil, err
	}
	s.store.Put(key, page)
	return page, nil
}

// Create adds a task. The speculative page shows it immediately, prepended
// with a temporary id the way the dashboard renders it before the server
// assigns the real one.
func (s *TaskService) Create(ctx context.Context, f client.Filters, srt client.Sort, req client.CreateTaskRequest) (*client.Task, error) {
	if err := client.ValidateCreateTask(req); err != nil {
		return nil, err
	}

	speculative := s.speculativeTask(req)
	key := store.TasksKey(f, srt)
	result, err := s.engine.Perform(ctx, key,
		func(old any) any {
			page := clonePage(old)
			page.Tasks = append([]client.Task{speculative}, page.Tasks...)
			page.Total++
			return page
		},
		func(ctx context.Context) (any, error) {
			return s.remote.CreateTask(ctx, req)
		},
	)
	if err != nil {
		return nil, err
	}
	s.store.InvalidatePrefix(store.TasksPrefix)
	return result.(*client.Task), nil
}

// Update applies a partial update. The speculative page carries the merged
// fields with a touched UpdatedAt until the server's version arrives.
func (s *TaskService) Update(ctx context.Context, f client.Filters, srt client.Sort, id string, req client.UpdateTaskRequest) (*client.Task, error) {
	if err := client.ValidateUpdateTask(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := store.TasksKey(f, srt)
	result, err := s.engine.Perform(ctx, key,
		func(old any) any {
			page := clonePage(old)
			for i := range page.Tasks {
				if page.Tasks[i].ID == id {
					page.Tasks[i] = mergeUpdate(page.Tasks[i], req, now)
				}
			}
			return page
		},
		func(ctx context.Context) (any, error) {
			return s.remote.UpdateTask(ctx, id, req)
		},
	)
	if err != nil {
		return nil, err
	}
	s.store.InvalidatePrefix(store.TasksPrefix)
	return result.(*client.Task), nil
}

// Delete removes a task. The speculative page drops it immediately.
func (s *TaskService) Delete(ctx context.Context, f client.Filters, srt client.Sort, id string) error {
	key := store.TasksKey(f, srt)
	_, err := s.engine.Perform(ctx, key,
		func(old any) any {
			page := clonePage(old)
			kept := page.Tasks[:0]
			for _, t := range page.Tasks {
				if t.ID != id {
					kept = append(kept, t)
				}
			}
			if len(kept) < len(page.Tasks) {
				page.Total--
			}
			page.Tasks = kept
			return page
		},
		func(ctx context.Context) (any, error) {
			return nil, s.remote.DeleteTask(ctx, id)
		},
	)
	if err != nil {
		return err
	}
	s.store.InvalidatePrefix(store.TasksPrefix)
	return nil
}

// Complete marks a task done. When the server spawns a next occurrence for a
// recurring task, it is folded into the cached pages as if newly created —
// the client never computes occurrence dates itself.
func (s *TaskService) Complete(ctx context.Context, f client.Filters, srt client.Sort, id string) (*client.CompleteTaskResponse, error) {
	res, err := s.setCompleted(ctx, f, srt, id, true)
	if err != nil {
		return nil, err
	}
	if res.NextOccurrence != nil {
		s.foldOccurrence(store.TasksKey(f, srt), *res.NextOccurrence)
	}
	s.store.InvalidatePrefix(store.TasksPrefix)
	return res, nil
}

// Incomplete reverts a task to not-completed.
func (s *TaskService) Incomplete(ctx context.Context, f client.Filters, srt client.Sort, id string) (*client.Task, error) {
	res, err := s.setCompleted(ctx, f, srt, id, false)
	if err != nil {
		return nil, err
	}
	s.store.InvalidatePrefix(store.TasksPrefix)
	return &res.Task, nil
}

func (s *TaskService) setCompleted(ctx context.Context, f client.Filters, srt client.Sort, id string, completed bool) (*client.CompleteTaskResponse, error) {
	now := s.now().UTC()
	key := store.TasksKey(f, srt)
	result, err := s.engine.Perform(ctx, key,
		func(old any) any {
			page := clonePage(old)
			for i := range page.Tasks {
				if page.Tasks[i].ID == id {
					page.Tasks[i].Completed = completed
					page.Tasks[i].UpdatedAt = now
				}
			}
			return page
		},
		func(ctx context.Context) (any, error) {
			if completed {
				return s.remote.CompleteTask(ctx, id)
			}
			task, err := s.remote.IncompleteTask(ctx, id)
			if err != nil {
				return nil, err
			}
			return &client.CompleteTaskResponse{Task: *task}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return result.(*client.CompleteTaskResponse), nil
}

// foldOccurrence inserts the server-created successor into the cached page
// without claiming freshness; the pending-free Patch keeps the entry stale so
// the next authoritative read still refetches.
func (s *TaskService) foldOccurrence(key store.Key, next client.Task) {
	s.store.Patch(key, func(old any) any {
		page := clonePage(old)
		page.Tasks = append([]client.Task{next}, page.Tasks...)
		page.Total++
		return page
	})
	occurrencesFoldedTotal.Inc()
}

// speculativeTask builds the local stand-in the page shows until the server
// assigns identity and timestamps.
func (s *TaskService) speculativeTask(req client.CreateTaskRequest) client.Task {
	now := s.now().UTC()
	t := client.Task{
		ID:           "temp-" + uuid.NewString(),
		Description:  req.Description,
		Completed:    false,
		Priority:     req.Priority,
		Tags:         req.Tags,
		DueDate:      req.DueDate,
		DueTime:      req.DueTime,
		ReminderTime: req.ReminderTime,
		Recurrence:   req.Recurrence,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t.Priority == "" {
		t.Priority = client.PriorityMedium
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Recurrence == "" {
		t.Recurrence = client.RecurrenceNone
	}
	return t
}

func mergeUpdate(t client.Task, req client.UpdateTaskRequest, now time.Time) client.Task {
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Tags != nil {
		t.Tags = req.Tags
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.DueTime != nil {
		t.DueTime = req.DueTime
	}
	if req.ReminderTime != nil {
		t.ReminderTime = req.ReminderTime
	}
	if req.Recurrence != nil {
		t.Recurrence = *req.Recurrence
	}
	t.UpdatedAt = now
	return t
}

// clonePage deep-copies the task slice so speculative transforms never write
// through the snapshot's payload.
func clonePage(old any) *client.TaskPage {
	if old == nil {
		return &client.TaskPage{Tasks: []client.Task{}}
	}
	page := old.(*client.TaskPage)
	cloned := &client.TaskPage{
		Tasks:   make([]client.Task, len(page.Tasks)),
		Total:   page.Total,
		HasMore: page.HasMore,
	}
	copy(cloned.Tasks, page.Tasks)
	return cloned
}

// listParams maps the screen-side filter/sort state to list query parameters,
// the same way the dashboard builds them.
func listParams(f client.Filters, srt client.Sort) client.ListTasksParams {
	p := client.ListTasksParams{Search: f.Search, Tag: f.Tag}
	switch f.Status {
	case client.StatusCompleted:
		v := true
		p.Completed = &v
	case client.StatusIncomplete:
		v := false
		p.Completed = &v
	}
	if f.Priority != "" && f.Priority != "all" {
		p.Priority = f.Priority
	}
	if srt.Field != "" && srt.Field != client.SortAlphabetical {
		p.SortBy = string(srt.Field)
	}
	if srt.Direction != "" {
		p.SortOrder = string(srt.Direction)
	}
	return p
}
