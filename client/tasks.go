package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Task operations - all methods operate directly on Client

// ListTasks retrieves tasks matching the given filters, sort, and date range.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) (*TaskPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Completed != nil {
		q.Set("completed", strconv.FormatBool(*params.Completed))
	}
	if params.Priority != "" {
		q.Set("priority", string(params.Priority))
	}
	if params.Tag != "" {
		q.Set("tag", params.Tag)
	}
	if params.StartDate != "" {
		q.Set("startDate", params.StartDate)
	}
	if params.EndDate != "" {
		q.Set("endDate", params.EndDate)
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		q.Set("sortOrder", params.SortOrder)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	u := fmt.Sprintf("%s/api/tasks", c.baseURL)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	var page TaskPage
	if err := c.getJSON(ctx, "list tasks", u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTask retrieves a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireTaskID(id); err != nil {
		return nil, err
	}

	var body struct {
		Task Task `json:"task"`
	}
	u := fmt.Sprintf("%s/api/tasks/%s", c.baseURL, id)
	if err := c.getJSON(ctx, "get task", u, &body); err != nil {
		return nil, err
	}
	return &body.Task, nil
}

// CreateTask creates a new task. The server assigns id and timestamps.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateCreateTask(req); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/tasks", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError("create task", resp)
	}

	var created struct {
		Task Task `json:"task"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	return &created.Task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireTaskID(id); err != nil {
		return nil, err
	}
	if err := ValidateUpdateTask(req); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/tasks/%s", c.baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError("update task", resp)
	}

	var updated struct {
		Task Task `json:"task"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated.Task, nil
}

// DeleteTask removes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := requireTaskID(id); err != nil {
		return err
	}
	u := fmt.Sprintf("%s/api/tasks/%s", c.baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return decodeAPIError("delete task", resp)
	}
	return nil
}

// CompleteTask marks a task completed. For recurring tasks the response may
// carry the server-created next occurrence.
func (c *Client) CompleteTask(ctx context.Context, id string) (*CompleteTaskResponse, error) {
	return c.postCompletion(ctx, id, "complete")
}

// IncompleteTask reverts a task to not-completed.
func (c *Client) IncompleteTask(ctx context.Context, id string) (*Task, error) {
	res, err := c.postCompletion(ctx, id, "incomplete")
	if err != nil {
		return nil, err
	}
	return &res.Task, nil
}

func (c *Client) postCompletion(ctx context.Context, id, action string) (*CompleteTaskResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireTaskID(id); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/api/tasks/%s/%s", c.baseURL, id, action)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(action+" task", resp)
	}

	var out CompleteTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
