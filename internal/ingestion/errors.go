package ingestion

import "fmt"

// InputFormatError represents an unreadable identifier file or a missing column
type InputFormatError struct {
	Path    string
	Message string
	Cause   error
}

func (e *InputFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input format error in %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("input format error in %s: %s", e.Path, e.Message)
}

func (e *InputFormatError) Unwrap() error {
	return e.Cause
}
