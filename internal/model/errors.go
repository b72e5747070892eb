package model

import "fmt"

// ValidationError rejects a mutation before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError reports a durable-store read or write failure. The in-memory
// state is still authoritative when one of these is returned from a mutation.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MalformedDocumentError reports a stored document that could not be decoded.
// QuarantineKey names the copy of the raw payload, if one was written.
type MalformedDocumentError struct {
	Key           string
	QuarantineKey string
	Err           error
}

func (e *MalformedDocumentError) Error() string {
	msg := fmt.Sprintf("malformed document %q: %v", e.Key, e.Err)
	if e.QuarantineKey != "" {
		msg += fmt.Sprintf(" (raw payload saved as %q)", e.QuarantineKey)
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}
