package forum

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	ErrPostClosed   = errors.New("post is closed")
	ErrUnauthorized = errors.New("unauthorized action")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")

	// ErrDuplicateVote is returned by a VoteStore when the (voter, target) unique constraint rejects an insert.
	ErrDuplicateVote = errors.New("vote already exists")
)

// StoreError wraps a failure of the backing store. It is never retried here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeErr passes domain errors through untouched and wraps everything else.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConflict) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
