// Package view derives the visible subset of a task collection.
package view

import "github.com/rogersnm/todos/internal/model"

// Result is the ordered subset selected by a filter mode.
type Result struct {
	Mode  model.FilterMode
	Tasks []model.Task
}

// Empty reports whether nothing matched, in which case renderers show a
// placeholder instead of an empty list.
func (r Result) Empty() bool {
	return len(r.Tasks) == 0
}

// Filter returns the tasks visible under mode, keeping their relative order.
// The input slice is never modified or aliased. Unknown modes select everything.
func Filter(tasks []model.Task, mode model.FilterMode) Result {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case model.FilterPending:
			if t.Completed {
				continue
			}
		case model.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return Result{Mode: mode, Tasks: out}
}
