package services

import (
	"errors"
	"fmt"
)

// StorageError reports that the event log or option store could not be read
// or written. A failed recompute leaves the published snapshot untouched.
type StorageError struct {
	Op  string
	Err error
}

func (err *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", err.Op, err.Err)
}

func (err *StorageError) Unwrap() error {
	return err.Err
}

func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}

func wrapStorageError(op string, err error) error {
	if err == nil || IsStorageError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
