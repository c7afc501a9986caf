package storage

import "fmt"

// NotFoundError is returned when an entry doesn't exist in the store.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	if e.ID == 0 {
		return "entry not found"
	}

	return fmt.Sprintf("entry not found: %d", e.ID)
}

// StorageError wraps a backend failure from a query or mutation. Mutating
// operations tied to a user-visible response must surface it, never swallow it.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}
