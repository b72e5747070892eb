// Package stats aggregates completion counts over a task collection.
package stats

import "github.com/rogersnm/todos/internal/model"

// Compute counts tasks from scratch. Pending is derived from the other two
// so Pending+Completed == Total always holds.
func Compute(tasks []model.Task) model.Stats {
	s := model.Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
