package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Validate_Valid(t *testing.T) {
	task := &Task{ID: 1, Text: "Buy milk"}
	assert.NoError(t, task.Validate())
}

func TestTask_Validate_MissingID(t *testing.T) {
	task := &Task{Text: "Buy milk"}
	assert.Error(t, task.Validate())
}

func TestTask_Validate_BlankText(t *testing.T) {
	task := &Task{ID: 1, Text: "   \t"}
	err := task.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "text", ve.Field)
}

func TestTask_Toggled_OnlyFlipsCompleted(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	task := Task{ID: 7, Text: "Write report", CreatedAt: created}

	flipped := task.Toggled()
	assert.True(t, flipped.Completed)
	assert.False(t, task.Completed, "original must not change")
	assert.Equal(t, task.ID, flipped.ID)
	assert.Equal(t, task.Text, flipped.Text)
	assert.Equal(t, task.CreatedAt, flipped.CreatedAt)

	assert.Equal(t, task, flipped.Toggled())
}

func TestTask_JSONFieldNames(t *testing.T) {
	task := Task{ID: 1700000000000, Text: "Buy milk", CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1700000000000,"text":"Buy milk","completed":false,"createdAt":"2026-01-01T12:00:00Z"}`, string(data))
}

func TestTask_DecodesBrowserTimestamp(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":1,"text":"a","completed":true,"createdAt":"2024-03-05T10:11:12.345Z"}`), &task)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, 345*time.Millisecond, time.Duration(task.CreatedAt.Nanosecond()))
}

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in   string
		want FilterMode
	}{
		{"", FilterAll},
		{"all", FilterAll},
		{"pending", FilterPending},
		{"completed", FilterCompleted},
	}
	for _, tt := range tests {
		got, err := ParseFilterMode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseFilterMode_Invalid(t *testing.T) {
	for _, in := range []string{"done", "ALL", "open"} {
		_, err := ParseFilterMode(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestStats_String(t *testing.T) {
	assert.Equal(t, "Total: 3  Completed: 1  Pending: 2", Stats{Total: 3, Completed: 1, Pending: 2}.String())
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := error(&PersistenceError{Op: "save", Key: "todos", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestMalformedDocumentError_MentionsQuarantine(t *testing.T) {
	err := &MalformedDocumentError{Key: "todos", QuarantineKey: "todos.corrupt.1", Err: errors.New("bad json")}
	assert.Contains(t, err.Error(), "todos.corrupt.1")
}
