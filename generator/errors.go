package generator

import (
	"errors"
	"fmt"
)

// ErrUpstreamGeneration matches every failure of the external text-generation client.
var ErrUpstreamGeneration = errors.New("upstream generation failure")

// ErrEmptyHistory is returned when the loop is started without an initial message.
var ErrEmptyHistory = errors.New("history must contain the initial user message")

// UpstreamError aborts a reflection run. History holds only the messages appended
// before the failing step; it is kept for logging and is never returned as a result.
type UpstreamError struct {
	Step    State
	History History
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s step failed after %d messages: %v", e.Step, len(e.History), e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstreamGeneration }
