package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rogersnm/todos/internal/model"
)

// DefaultKey is the key the task document is stored under.
const DefaultKey = "todos"

// Adapter loads and saves the task collection as a single JSON document.
type Adapter struct {
	backend Backend
	key     string
	now     func() time.Time
}

func NewAdapter(backend Backend, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{backend: backend, key: key, now: time.Now}
}

func (a *Adapter) Key() string {
	return a.key
}

func (a *Adapter) Backend() Backend {
	return a.backend
}

// Save overwrites the stored document with tasks, in order.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return &model.PersistenceError{Op: "save", Key: a.key, Err: fmt.Errorf("encoding document: %w", err)}
	}
	if err := a.backend.Put(ctx, a.key, data); err != nil {
		return &model.PersistenceError{Op: "save", Key: a.key, Err: err}
	}
	return nil
}

// Load reads the stored document. A missing document yields (nil, nil).
// A document that does not decode to a valid collection yields
// (nil, *model.MalformedDocumentError); before returning, the raw payload is
// copied to a quarantine key so it can be recovered by hand. Backend failures
// yield *model.PersistenceError.
func (a *Adapter) Load(ctx context.Context) ([]model.Task, error) {
	data, err := a.backend.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, &model.PersistenceError{Op: "load", Key: a.key, Err: err}
	}

	tasks, err := Decode(data)
	if err != nil {
		merr := &model.MalformedDocumentError{Key: a.key, Err: err}
		qkey := fmt.Sprintf("%s.corrupt.%d", a.key, a.now().UnixNano())
		if putErr := a.backend.Put(ctx, qkey, data); putErr == nil {
			merr.QuarantineKey = qkey
		}
		return nil, merr
	}
	return tasks, nil
}

// Decode parses a task document and checks that every task is valid and
// every id is unique. A JSON null is an empty collection.
func Decode(data []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	seen := make(map[int64]bool, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %d", i, t.ID)
		}
		seen[t.ID] = true
	}
	return tasks, nil
}
