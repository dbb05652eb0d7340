package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrUnavailable   = errors.New("storage unavailable")
	ErrCorruptRecord = errors.New("corrupt record")
)

// StorageError is a backend failure. It matches ErrUnavailable with errors.Is.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrUnavailable
}

func unavailable(op string, key string, err error) error {
	return &StorageError{Op: op, Key: key, Err: err}
}
