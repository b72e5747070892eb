package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rogersnm/todos/internal/config"
	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/persist"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag back to its default so state from one
// Execute does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setupEnv(t *testing.T) string {
	t.Helper()
	resetFlags(rootCmd)
	confirmPrompt = func(string) (bool, error) {
		t.Fatal("unexpected confirmation prompt")
		return false, nil
	}
	nowFunc = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return t.TempDir()
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, dir, "", args...)
}

func runWithInput(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func storedTasks(t *testing.T, dir string) []model.Task {
	t.Helper()
	a := persist.NewAdapter(persist.NewFileBackend(dir), "todos")
	tasks, err := a.Load(t.Context())
	require.NoError(t, err)
	return tasks
}

func TestAdd_PrintsViewAndStats(t *testing.T) {
	dir := setupEnv(t)
	out, err := run(t, dir, "add", "Buy", "milk")
	require.NoError(t, err)

	assert.Contains(t, out, "Added task")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Total:")

	tasks := storedTasks(t, dir)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
}

func TestAdd_TrimsText(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "add", "  spaced out  ")
	require.NoError(t, err)
	assert.Equal(t, "spaced out", storedTasks(t, dir)[0].Text)
}

func TestAdd_Blank(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "add", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please enter a task")

	_, statErr := os.Stat(filepath.Join(dir, "todos.json"))
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestAdd_FromStdin(t *testing.T) {
	dir := setupEnv(t)
	_, err := runWithInput(t, dir, "first\n\nsecond\n", "add")
	require.NoError(t, err)

	tasks := storedTasks(t, dir)
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Text)
	assert.Equal(t, "first", tasks[1].Text)
}

func TestToggleAndFilter(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "add", "Write report")
	require.NoError(t, err)
	task := storedTasks(t, dir)[0]

	_, err = run(t, dir, "toggle", fmt.Sprint(task.ID))
	require.NoError(t, err)
	assert.True(t, storedTasks(t, dir)[0].Completed)

	out, err := run(t, dir, "list", "--filter", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	out, err = run(t, dir, "list", "--filter", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
}

func TestToggle_UnknownID(t *testing.T) {
	dir := setupEnv(t)
	out, err := run(t, dir, "toggle", "123")
	require.NoError(t, err)
	assert.Contains(t, out, "No task 123")
}

func TestToggle_InvalidID(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "toggle", "abc")
	assert.Error(t, err)
}

func TestDoneUndo_Idempotent(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "add", "a")
	require.NoError(t, err)
	taskID := fmt.Sprint(storedTasks(t, dir)[0].ID)

	_, err = run(t, dir, "done", taskID)
	require.NoError(t, err)
	out, err := run(t, dir, "done", taskID)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
	assert.True(t, storedTasks(t, dir)[0].Completed)

	_, err = run(t, dir, "undo", taskID)
	require.NoError(t, err)
	assert.False(t, storedTasks(t, dir)[0].Completed)
}

func TestDelete(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "add", "a")
	require.NoError(t, err)
	_, err = run(t, dir, "add", "b")
	require.NoError(t, err)
	victim := storedTasks(t, dir)[1]

	_, err = run(t, dir, "delete", fmt.Sprint(victim.ID))
	require.NoError(t, err)
	tasks := storedTasks(t, dir)
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].Text)
}

func TestClearCompleted_Force(t *testing.T) {
	dir := setupEnv(t)
	run(t, dir, "add", "done")
	run(t, dir, "add", "pending")
	done := storedTasks(t, dir)[1]
	run(t, dir, "toggle", fmt.Sprint(done.ID))

	out, err := run(t, dir, "clear-completed", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 completed task(s)")

	tasks := storedTasks(t, dir)
	require.Len(t, tasks, 1)
	assert.Equal(t, "pending", tasks[0].Text)
}

func TestClearAll_Declined(t *testing.T) {
	dir := setupEnv(t)
	run(t, dir, "add", "keep me")

	asked := ""
	confirmPrompt = func(p string) (bool, error) { asked = p; return false, nil }
	out, err := run(t, dir, "clear-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Contains(t, asked, "clear all tasks")
	assert.Len(t, storedTasks(t, dir), 1)
}

func TestClearAll_Confirmed(t *testing.T) {
	dir := setupEnv(t)
	run(t, dir, "add", "a")
	run(t, dir, "add", "b")

	confirmPrompt = func(string) (bool, error) { return true, nil }
	_, err := run(t, dir, "clear-all")
	require.NoError(t, err)
	assert.Empty(t, storedTasks(t, dir))
}

func TestStats_JSON(t *testing.T) {
	dir := setupEnv(t)
	run(t, dir, "add", "a")
	run(t, dir, "add", "b")
	run(t, dir, "toggle", fmt.Sprint(storedTasks(t, dir)[0].ID))

	out, err := run(t, dir, "stats", "--json")
	require.NoError(t, err)
	var s model.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, model.Stats{Total: 2, Completed: 1, Pending: 1}, s)
}

func TestList_JSON(t *testing.T) {
	dir := setupEnv(t)
	run(t, dir, "add", "a")
	run(t, dir, "add", "b")

	out, err := run(t, dir, "list", "--json")
	require.NoError(t, err)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].Text)
}

func TestLoad_CorruptDocumentStartsEmpty(t *testing.T) {
	dir := setupEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte("{{nope"), 0644))

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	matches, err := filepath.Glob(filepath.Join(dir, "todos.corrupt.*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := setupEnv(t)
	run(t, src, "add", "older")
	run(t, src, "add", "newer")
	run(t, src, "toggle", fmt.Sprint(storedTasks(t, src)[1].ID))

	file := filepath.Join(t.TempDir(), "tasks.md")
	_, err := run(t, src, "export", "-o", file)
	require.NoError(t, err)

	dst := t.TempDir()
	out, err := run(t, dst, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 task(s)")

	tasks := storedTasks(t, dst)
	require.Len(t, tasks, 2)
	assert.Equal(t, "newer", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.Equal(t, "older", tasks[1].Text)
	assert.True(t, tasks[1].Completed)
}

func TestExport_Stdout(t *testing.T) {
	dir := setupEnv(t)
	run(t, dir, "add", "a")

	out, err := run(t, dir, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "---\n")
	assert.Contains(t, out, "- [ ] a")
}

func TestSQLiteBackendFlag(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "--backend", "sqlite", "add", "in sqlite")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "todos.db"))

	out, err := run(t, dir, "--backend", "sqlite", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "in sqlite")
}

func TestInvalidFilter(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "list", "--filter", "done")
	assert.Error(t, err)
}

func TestConfigSet_Persists(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, dir, "config", "set", "default_filter", "pending")
	require.NoError(t, err)

	c, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "pending", c.DefaultFilter)

	_, err = run(t, dir, "config", "set", "backend", "floppy")
	assert.Error(t, err)
}

func TestDefaultFilterFromConfig(t *testing.T) {
	dir := setupEnv(t)
	require.NoError(t, config.Save(dir, &config.Config{DefaultFilter: "completed"}))
	run(t, dir, "add", "pending task")

	out, err := run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
	assert.Contains(t, out, "showing completed")
}
