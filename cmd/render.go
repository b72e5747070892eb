package cmd

import (
	"fmt"
	"io"

	"github.com/rogersnm/todos/internal/markdown"
	"github.com/rogersnm/todos/internal/store"
)

// renderer prints the filtered list and stats whenever the store changes.
type renderer struct {
	w     io.Writer
	muted bool
}

func (r *renderer) OnChange(snap store.Snapshot) {
	if r.muted {
		return
	}
	fmt.Fprint(r.w, markdown.RenderView(snap.Visible, snap.Stats))
}
