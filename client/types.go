package client

import "time"

// ------------------------------
// Core domain types and payloads
// ------------------------------

// Priority levels a task can carry.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recurrence describes how a task repeats. Next-occurrence dates are computed
// server-side; the client only echoes the value back.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Task is a single task as the service returns it. DueDate is a calendar date
// (YYYY-MM-DD), DueTime a time of day (HH:MM) meaningful only with DueDate.
type Task struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	Completed    bool       `json:"completed"`
	Priority     Priority   `json:"priority"`
	Tags         []string   `json:"tags"`
	DueDate      *string    `json:"dueDate"`
	DueTime      *string    `json:"dueTime"`
	ReminderTime *time.Time `json:"reminderTime"`
	Recurrence   Recurrence `json:"recurrence"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TaskPage wraps the list endpoint response and is the payload cached per
// query signature.
type TaskPage struct {
	Tasks   []Task `json:"tasks"`
	Total   int    `json:"total"`
	HasMore bool   `json:"hasMore"`
}

// CreateTaskRequest is the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Description  string     `json:"description"`
	Priority     Priority   `json:"priority,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	DueDate      *string    `json:"dueDate,omitempty"`
	DueTime      *string    `json:"dueTime,omitempty"`
	ReminderTime *time.Time `json:"reminderTime,omitempty"`
	Recurrence   Recurrence `json:"recurrence,omitempty"`
}

// UpdateTaskRequest is the partial payload for PATCH /api/tasks/{id}.
// Nil fields are left untouched by the server.
type UpdateTaskRequest struct {
	Description  *string     `json:"description,omitempty"`
	Completed    *bool       `json:"completed,omitempty"`
	Priority     *Priority   `json:"priority,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	DueDate      *string     `json:"dueDate,omitempty"`
	DueTime      *string     `json:"dueTime,omitempty"`
	ReminderTime *time.Time  `json:"reminderTime,omitempty"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
}

// CompleteTaskResponse is returned by the complete endpoint. NextOccurrence is
// non-nil when completing a recurring task spawned a successor.
type CompleteTaskResponse struct {
	Task           Task  `json:"task"`
	NextOccurrence *Task `json:"nextOccurrence"`
}

// ListTasksParams are the query parameters for GET /api/tasks. Zero values
// mean "not set".
type ListTasksParams struct {
	Search    string
	Completed *bool
	Priority  Priority
	Tag       string
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	SortBy    string // dueDate | priority | createdAt
	SortOrder string // asc | desc
	Limit     int
	Offset    int
}

// ------------------------------
// Filter and sort state
// ------------------------------

// Status filter over completion state.
type Status string

const (
	StatusAll        Status = "all"
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
)

// Filters is the screen-side filter state for a task list. Zero values mean
// "no filtering": empty Search, empty or "all" Status/Priority, empty Tag.
type Filters struct {
	Search   string
	Status   Status
	Priority Priority // "" or "all" matches every priority
	Tag      string
}

// SortField selects the comparison key for a task list.
type SortField string

const (
	SortDueDate      SortField = "dueDate"
	SortPriority     SortField = "priority"
	SortAlphabetical SortField = "alphabetical"
	SortCreatedAt    SortField = "createdAt"
)

// SortDirection flips the comparator, not the input order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is the screen-side sort state for a task list.
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// ------------------------------
// Chat types
// ------------------------------

// Role of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of a conversation.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	ToolCalls map[string]any `json:"tool_calls,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Conversation is the authoritative transcript for one conversation id.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ConversationList wraps the list endpoint response.
type ConversationList struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}

// ChatRequest is the payload for POST /api/chat. ConversationID is empty for
// the first message of a new conversation; the server assigns one.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ToolResult is the structured outcome of a task operation the assistant ran
// as a side effect of the dialogue.
type ToolResult struct {
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	TaskID  string `json:"task_id,omitempty"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response       string       `json:"response"`
	ConversationID string       `json:"conversation_id"`
	ToolResults    []ToolResult `json:"tool_results,omitempty"`
}
