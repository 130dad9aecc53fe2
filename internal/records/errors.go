package records

import (
	"fmt"
	"strings"

	"github.com/jonathan/user-news-etl/internal/types"
)

// RemoteFetchError represents a failed seed fetch while populating the cache
type RemoteFetchError struct {
	Source string
	Cause  error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch seed record from %s: %v", e.Source, e.Cause)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Cause
}

// PersistError represents a failed read or write against a record store
type PersistError struct {
	Store   string
	Message string
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Store, e.Message, e.Cause)
	}
	return fmt.Sprintf("store %s: %s", e.Store, e.Message)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}

// MissingNewsError is returned when a cached record has no news field to append to
type MissingNewsError struct {
	UserID types.Identifier
}

func (e *MissingNewsError) Error() string {
	return fmt.Sprintf("user %s has no news field", e.UserID)
}

// UnresolvedError lists identifiers with no cached record under the fail policy
type UnresolvedError struct {
	Missing []types.Identifier
}

func (e *UnresolvedError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%d identifier(s) not found in cache: %s", len(e.Missing), strings.Join(ids, ", "))
}
