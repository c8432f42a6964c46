package model

import (
	"errors"
	"fmt"
)

// ErrNoRun is returned by ResultStore.LastRun when nothing has been saved yet.
var ErrNoRun = errors.New("no run recorded")

// HTTPError wraps an unexpected HTTP status from an upstream job board.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
