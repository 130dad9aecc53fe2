package marketing

import (
	"fmt"

	"github.com/jonathan/user-news-etl/internal/types"
)

// GenerationError represents a failed call to the generative-text service
type GenerationError struct {
	UserID  types.Identifier
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	prefix := "generation failed"
	if !e.UserID.IsZero() {
		prefix = fmt.Sprintf("generation failed for user %s", e.UserID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
