package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCreateTask_SendsPayloadAndDecodesTask(t *testing.T) {
	var gotBody CreateTaskRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/tasks" {
			t.Errorf("path = %s, want /api/tasks", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-1" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"task": Task{
			ID:          "t-1",
			Description: gotBody.Description,
			Priority:    gotBody.Priority,
			Tags:        gotBody.Tags,
			Recurrence:  RecurrenceNone,
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, WithAuthToken("tok-1"))
	task, err := c.CreateTask(context.Background(), CreateTaskRequest{
		Description: "buy milk",
		Priority:    PriorityHigh,
		Tags:        []string{"errand"},
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != "t-1" || task.Description != "buy milk" {
		t.Errorf("unexpected task: %+v", task)
	}
	if gotBody.Priority != PriorityHigh || len(gotBody.Tags) != 1 {
		t.Errorf("server saw body %+v", gotBody)
	}
}

func TestCreateTask_ValidationSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateTask(context.Background(), CreateTaskRequest{Description: ""})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestListTasks_BuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("completed") != "false" || q.Get("priority") != "high" || q.Get("sortBy") != "dueDate" || q.Get("sortOrder") != "asc" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("startDate") != "2026-08-01" || q.Get("endDate") != "2026-08-31" {
			t.Errorf("date range missing from query: %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(TaskPage{Tasks: []Task{{ID: "t-1"}}, Total: 1})
	}))
	defer srv.Close()

	completed := false
	c := New(srv.URL)
	page, err := c.ListTasks(context.Background(), ListTasksParams{
		Completed: &completed,
		Priority:  PriorityHigh,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-31",
		SortBy:    "dueDate",
		SortOrder: "asc",
	})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if page.Total != 1 || len(page.Tasks) != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestGetTask_NotFoundIsPermanent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "not_found", "message": "no such task"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetTask(context.Background(), "gone")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
	// 4xx must not be retried.
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server received %d requests, want 1", n)
	}
}

func TestGetTask_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"task": Task{ID: "t-9"}})
	}))
	defer srv.Close()

	c := New(srv.URL, WithReadRetryBudget(2*time.Second))
	task, err := c.GetTask(context.Background(), "t-9")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.ID != "t-9" {
		t.Errorf("task = %+v", task)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("server received %d requests, want 2", n)
	}
}

func TestGetTask_ZeroRetryBudgetDisablesRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, WithReadRetryBudget(0))
	_, err := c.GetTask(context.Background(), "t-9")
	var ae *APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v, want 500 APIError", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server received %d requests, want 1", n)
	}
}

func TestDeleteTask_AcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tasks/t-3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.DeleteTask(context.Background(), "t-3"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}

func TestCompleteTask_DecodesNextOccurrence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/tasks/t-5/complete" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		due := "2026-09-05"
		_ = json.NewEncoder(w).Encode(CompleteTaskResponse{
			Task:           Task{ID: "t-5", Completed: true, Recurrence: RecurrenceWeekly},
			NextOccurrence: &Task{ID: "t-6", Recurrence: RecurrenceWeekly, DueDate: &due},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.CompleteTask(context.Background(), "t-5")
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.Task.Completed {
		t.Errorf("task not marked completed: %+v", res.Task)
	}
	if res.NextOccurrence == nil || res.NextOccurrence.ID != "t-6" {
		t.Errorf("next occurrence = %+v", res.NextOccurrence)
	}
}

func TestSendMessage_CarriesConversationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ConversationID != "conv-1" {
			t.Errorf("conversation_id = %q", req.ConversationID)
		}
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Response:       "done",
			ConversationID: "conv-1",
			ToolResults:    []ToolResult{{Tool: "create_task", Success: true, TaskID: "t-7"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.SendMessage(context.Background(), ChatRequest{Message: "add milk", ConversationID: "conv-1"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(resp.ToolResults) != 1 || resp.ToolResults[0].TaskID != "t-7" {
		t.Errorf("tool results = %+v", resp.ToolResults)
	}
}

func TestOperations_RejectCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be reached")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL)
	if _, err := c.ListTasks(ctx, ListTasksParams{}); err != context.Canceled {
		t.Errorf("ListTasks err = %v, want context.Canceled", err)
	}
	if err := c.DeleteTask(ctx, "t-1"); err != context.Canceled {
		t.Errorf("DeleteTask err = %v, want context.Canceled", err)
	}
}
