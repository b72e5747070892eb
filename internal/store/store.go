// Package store owns the authoritative task collection. Every mutation is
// written through to the persistence adapter and then published to
// subscribers together with the filtered view and fresh stats.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
	"github.com/rogersnm/todos/internal/persist"
	"github.com/rogersnm/todos/internal/stats"
	"github.com/rogersnm/todos/internal/view"
)

var (
	// ErrCancelled is returned when a confirmation gate declines.
	ErrCancelled = errors.New("cancelled")
	ErrNotFound  = errors.New("task not found")
)

const (
	PromptClearCompleted = "Are you sure you want to clear all completed tasks?"
	PromptClearAll       = "Are you sure you want to clear all tasks?"
)

// Confirm asks the user to approve a destructive operation.
type Confirm func(prompt string) (bool, error)

// Snapshot is what subscribers receive after each change.
type Snapshot struct {
	Visible view.Result
	Stats   model.Stats
	Mode    model.FilterMode
	// PersistErr is set while the durable copy is out of sync.
	PersistErr error
}

// Observer receives snapshots in mutation order. Observers may read from the
// store but must not mutate it.
type Observer func(Snapshot)

type subscription struct {
	id int
	fn Observer
}

type TaskStore struct {
	mu      sync.Mutex
	tasks   []model.Task
	mode    model.FilterMode
	lastErr error
	pending []Snapshot

	adapter *persist.Adapter
	ids     *id.Generator
	now     func() time.Time
	log     *slog.Logger

	subMu   sync.Mutex
	subs    []subscription
	nextSub int

	// held while draining pending so only one goroutine delivers at a time
	notifyMu sync.Mutex
}

type Option func(*TaskStore)

func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *TaskStore) { s.log = l }
}

func WithIDGenerator(g *id.Generator) Option {
	return func(s *TaskStore) { s.ids = g }
}

func WithFilter(mode model.FilterMode) Option {
	return func(s *TaskStore) { s.mode = mode }
}

func New(adapter *persist.Adapter, opts ...Option) *TaskStore {
	s := &TaskStore{
		adapter: adapter,
		mode:    model.FilterAll,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.ids == nil {
		s.ids = id.NewGenerator(s.now)
	}
	return s
}

// Load replaces the collection with the persisted document. A missing or
// malformed document leaves the collection empty; the malformed case is
// logged and not returned. Backend read failures are returned as a
// *model.PersistenceError and also leave the collection empty.
func (s *TaskStore) Load(ctx context.Context) error {
	s.mu.Lock()
	tasks, err := s.adapter.Load(ctx)

	var merr *model.MalformedDocumentError
	switch {
	case errors.As(err, &merr):
		s.log.Warn("discarding malformed task document",
			"key", merr.Key, "quarantine", merr.QuarantineKey, "err", merr.Err)
		tasks, err = nil, nil
	case err != nil:
		s.log.Warn("could not load tasks, starting empty", "err", err)
		tasks = nil
	}

	s.tasks = tasks
	s.lastErr = err
	for _, t := range tasks {
		s.ids.Observe(t.ID)
	}
	s.log.Debug("loaded tasks", "count", len(tasks), "key", s.adapter.Key())
	s.publishLocked()
	return err
}

// Add prepends a new pending task. Blank text is rejected with a
// *model.ValidationError and nothing is written.
func (s *TaskStore) Add(ctx context.Context, text string) (model.Task, error) {
	if err := model.ValidateText(text); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	t := model.Task{
		ID:        s.ids.Next(),
		Text:      text,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, t)
	next = append(next, s.tasks...)
	return t, s.commitLocked(ctx, "add", next)
}

// Toggle flips Completed on the task with the given id. It reports false
// without writing anything when no such task exists.
func (s *TaskStore) Toggle(ctx context.Context, taskID int64) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(taskID)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Clone(s.tasks)
	next[i] = next[i].Toggled()
	return true, s.commitLocked(ctx, "toggle", next)
}

// Delete removes the task with the given id, reporting false if absent.
func (s *TaskStore) Delete(ctx context.Context, taskID int64) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(taskID)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	return true, s.commitLocked(ctx, "delete", next)
}

// ClearCompleted removes every completed task once confirm approves. A nil
// confirm means the caller has already asked. Returns the number removed.
func (s *TaskStore) ClearCompleted(ctx context.Context, confirm Confirm) (int, error) {
	if err := ask(confirm, PromptClearCompleted); err != nil {
		return 0, err
	}

	s.mu.Lock()
	next := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(s.tasks) - len(next)
	return removed, s.commitLocked(ctx, "clear-completed", next)
}

// ClearAll empties the collection once confirm approves.
func (s *TaskStore) ClearAll(ctx context.Context, confirm Confirm) (int, error) {
	if err := ask(confirm, PromptClearAll); err != nil {
		return 0, err
	}

	s.mu.Lock()
	removed := len(s.tasks)
	return removed, s.commitLocked(ctx, "clear-all", []model.Task{})
}

func ask(confirm Confirm, prompt string) error {
	if confirm == nil {
		return nil
	}
	ok, err := confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}

// SetFilter changes the active view. Nothing is written.
func (s *TaskStore) SetFilter(mode model.FilterMode) {
	s.mu.Lock()
	s.mode = mode
	s.publishLocked()
}

func (s *TaskStore) Filter() model.FilterMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// All returns a copy of the collection, most recent first.
func (s *TaskStore) All() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *TaskStore) Get(taskID int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(taskID)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

func (s *TaskStore) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.Compute(s.tasks)
}

func (s *TaskStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// InSync reports whether the last load or save succeeded.
func (s *TaskStore) InSync() bool {
	return s.LastPersistErr() == nil
}

func (s *TaskStore) LastPersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn for every future snapshot and returns a function
// that removes it.
func (s *TaskStore) Subscribe(fn Observer) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	subID := s.nextSub
	s.subs = append(s.subs, subscription{id: subID, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == subID })
	}
}

func (s *TaskStore) Close() error {
	return s.adapter.Backend().Close()
}

func (s *TaskStore) indexLocked(taskID int64) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == taskID })
}

// commitLocked installs next, writes it through and publishes the result.
// The caller must hold s.mu; commitLocked releases it. A failed write keeps
// next in memory and is returned as a *model.PersistenceError.
func (s *TaskStore) commitLocked(ctx context.Context, op string, next []model.Task) error {
	s.tasks = next
	err := s.adapter.Save(ctx, next)
	if err != nil {
		s.log.Warn("persistence out of sync, continuing in memory", "op", op, "err", err)
	} else if s.lastErr != nil {
		s.log.Info("persistence back in sync", "op", op)
	}
	s.lastErr = err
	s.log.Debug("applied", "op", op, "count", len(next))
	s.publishLocked()
	return err
}

// publishLocked queues the current snapshot, releases s.mu and delivers
// queued snapshots in commit order.
func (s *TaskStore) publishLocked() {
	s.pending = append(s.pending, s.snapshotLocked())
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		snap := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.subMu.Lock()
		subs := slices.Clone(s.subs)
		s.subMu.Unlock()
		for _, sub := range subs {
			sub.fn(snap)
		}
	}
}

func (s *TaskStore) snapshotLocked() Snapshot {
	return Snapshot{
		Visible:    view.Filter(s.tasks, s.mode),
		Stats:      stats.Compute(s.tasks),
		Mode:       s.mode,
		PersistErr: s.lastErr,
	}
}
