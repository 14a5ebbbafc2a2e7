package upload

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in the current upload state")
	ErrNoFile            = errors.New("no file selected")
	ErrNoAccounts        = errors.New("no accounts selected")
	ErrInvalidPeriod     = errors.New("period end is before its start")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrClosed            = errors.New("upload coordinator is closed")
)

// StorageError wraps a failure of one of the store adapters.
type StorageError struct {
	Op      string
	Account string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Account == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed for account %s: %v", e.Op, e.Account, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
