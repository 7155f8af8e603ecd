package repository

import "fmt"

// StorageError reports that the orders table could not be read or written,
// either because the database is unreachable or a constraint was violated.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
