package model

import "fmt"

type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterPending   FilterMode = "pending"
	FilterCompleted FilterMode = "completed"
)

var validModes = []FilterMode{FilterAll, FilterPending, FilterCompleted}

// ParseFilterMode maps user input to a mode. Empty input means FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, m := range validModes {
		if FilterMode(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q: must be one of all, pending, completed", s)
}
