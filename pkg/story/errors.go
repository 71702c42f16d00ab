package story

import (
	"errors"
	"fmt"
)

// ErrPassageNotFound is matched by every LookupError.
var ErrPassageNotFound = errors.New("passage not found")

// LookupError reports a passage id outside the graph. It means the story
// document is corrupt or does not match the links being followed.
type LookupError struct {
	PID PID
	Len int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("passage %d out of range [1, %d]", e.PID, e.Len)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrPassageNotFound
}
