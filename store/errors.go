package store

import "fmt"

// StorageError reports a schema or constraint failure on write. The run
// aborts; the partially written destination is left as-is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
