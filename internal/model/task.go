package model

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Toggled returns a copy of t with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

func (t *Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("task id must be positive, got %d", t.ID)
	}
	return ValidateText(t.Text)
}

// ValidateText rejects text that is empty after trimming.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	return nil
}

// Stats holds the counts derived from a collection.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

func (s Stats) String() string {
	return fmt.Sprintf("Total: %d  Completed: %d  Pending: %d", s.Total, s.Completed, s.Pending)
}
