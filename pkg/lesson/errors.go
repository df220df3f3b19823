package lesson

import "fmt"

// ContentError indicates a lesson-authoring defect: an unknown tag, a
// malformed descriptor, or a dangling task reference. Content errors are
// fatal and never retried.
type ContentError struct {
	Msg string
}

func (e *ContentError) Error() string {
	return "lesson content: " + e.Msg
}

// contentErrorf builds a ContentError with fmt-style formatting.
func contentErrorf(format string, args ...any) *ContentError {
	return &ContentError{Msg: fmt.Sprintf(format, args...)}
}
