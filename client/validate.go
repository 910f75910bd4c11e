package client

import (
	"fmt"
	"time"
)

const (
	maxDescriptionLen = 500
	maxTags           = 10
	maxTagLen         = 50
)

// ValidateDescription validates task descriptions: non-empty, at most 500
// characters.
func ValidateDescription(description string) error {
	if description == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if len(description) > maxDescriptionLen {
		return &ValidationError{Field: "description", Reason: fmt.Sprintf("exceeds %d characters", maxDescriptionLen)}
	}
	return nil
}

// ValidateTags validates a tag set: at most 10 tags, each non-empty and at
// most 50 characters.
func ValidateTags(tags []string) error {
	if len(tags) > maxTags {
		return &ValidationError{Field: "tags", Reason: fmt.Sprintf("at most %d tags allowed", maxTags)}
	}
	for _, tag := range tags {
		if tag == "" {
			return &ValidationError{Field: "tags", Reason: "tag must not be empty"}
		}
		if len(tag) > maxTagLen {
			return &ValidationError{Field: "tags", Reason: fmt.Sprintf("tag %q exceeds %d characters", tag, maxTagLen)}
		}
	}
	return nil
}

// ValidatePriority accepts high, medium, or low. Empty means "let the server
// default" and is valid for requests.
func ValidatePriority(p Priority) error {
	switch p {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	}
	return &ValidationError{Field: "priority", Reason: "must be high, medium, or low"}
}

// ValidateRecurrence accepts none, daily, weekly, or monthly. Empty is valid
// for requests.
func ValidateRecurrence(r Recurrence) error {
	switch r {
	case "", RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return nil
	}
	return &ValidationError{Field: "recurrence", Reason: "must be none, daily, weekly, or monthly"}
}

// ValidateDueDate checks the YYYY-MM-DD calendar-date format.
func ValidateDueDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{Field: "dueDate", Reason: "must be a YYYY-MM-DD date"}
	}
	return nil
}

// ValidateDueTime checks the HH:MM time-of-day format.
func ValidateDueTime(t string) error {
	if _, err := time.Parse("15:04", t); err != nil {
		return &ValidationError{Field: "dueTime", Reason: "must be an HH:MM time"}
	}
	return nil
}

// ValidateCreateTask validates a full create payload. A due time without a
// due date is rejected: the time of day means nothing on its own.
func ValidateCreateTask(req CreateTaskRequest) error {
	if err := ValidateDescription(req.Description); err != nil {
		return err
	}
	if err := ValidateTags(req.Tags); err != nil {
		return err
	}
	if err := ValidatePriority(req.Priority); err != nil {
		return err
	}
	if err := ValidateRecurrence(req.Recurrence); err != nil {
		return err
	}
	if req.DueDate != nil {
		if err := ValidateDueDate(*req.DueDate); err != nil {
			return err
		}
	}
	if req.DueTime != nil {
		if req.DueDate == nil {
			return &ValidationError{Field: "dueTime", Reason: "requires dueDate"}
		}
		if err := ValidateDueTime(*req.DueTime); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdateTask validates a partial update payload.
func ValidateUpdateTask(req UpdateTaskRequest) error {
	if req.Description != nil {
		if err := ValidateDescription(*req.Description); err != nil {
			return err
		}
	}
	if err := ValidateTags(req.Tags); err != nil {
		return err
	}
	if req.Priority != nil {
		if err := ValidatePriority(*req.Priority); err != nil {
			return err
		}
	}
	if req.Recurrence != nil {
		if err := ValidateRecurrence(*req.Recurrence); err != nil {
			return err
		}
	}
	if req.DueDate != nil {
		if err := ValidateDueDate(*req.DueDate); err != nil {
			return err
		}
	}
	if req.DueTime != nil {
		if err := ValidateDueTime(*req.DueTime); err != nil {
			return err
		}
	}
	return nil
}

// requireTaskID guards operations addressed at a single task.
func requireTaskID(id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	return nil
}
