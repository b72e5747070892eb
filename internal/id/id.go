package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Generator hands out task ids derived from the wall clock in milliseconds,
// the same shape older documents use. Ids are strictly increasing for the
// lifetime of a Generator, so several calls inside one millisecond never
// collide, and ids already in use can be reserved with Observe.
type Generator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Next returns an id greater than every id returned or observed so far.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return n
}

// Observe reserves existing ids so Next never returns them.
func (g *Generator) Observe(ids ...int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, v := range ids {
		if v > g.last {
			g.last = v
		}
	}
}

// Parse reads a task id from user input.
func Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be a number", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return v, nil
}
