// Package persist stores the task document in a durable key-value backend.
package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Backend.Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// Backend is a durable key-value store. Put overwrites any prior value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// compile-time checks
var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*SQLiteBackend)(nil)
	_ Backend = (*HTTPBackend)(nil)
	_ Backend = (*MemoryBackend)(nil)
)

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
