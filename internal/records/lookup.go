package records

import (
	"fmt"

	"github.com/jonathan/user-news-etl/internal/types"
)

// MissingPolicy decides what happens to identifiers with no cached record
type MissingPolicy string

const (
	// MissingSkip drops unmatched identifiers silently
	MissingSkip MissingPolicy = "skip"
	// MissingReport drops unmatched identifiers and lets the caller log them
	MissingReport MissingPolicy = "report"
	// MissingFail aborts resolution with an UnresolvedError
	MissingFail MissingPolicy = "fail"
)

// ParseMissingPolicy validates a policy name; empty means MissingSkip
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case "":
		return MissingSkip, nil
	case MissingSkip, MissingReport, MissingFail:
		return MissingPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown missing-id policy %q (want skip, report or fail)", s)
	}
}

// Find returns the first record whose id equals id, or nil
func Find(id types.Identifier, users []*types.User) *types.User {
	for _, user := range users {
		if user != nil && user.ID.Equal(id) {
			return user
		}
	}
	return nil
}

// Resolution is the outcome of resolving identifiers against the cache
type Resolution struct {
	// Resolved holds one entry per matched identifier, in input order.
	// Repeated identifiers point at the same record.
	Resolved []*types.User
	// Missing holds unmatched identifiers, in input order
	Missing []types.Identifier
}

// Resolve maps identifiers to cached records. Under MissingFail any unmatched
// identifier makes it return an UnresolvedError along with the partial result.
func Resolve(ids []types.Identifier, users []*types.User, policy MissingPolicy) (*Resolution, error) {
	res := &Resolution{}
	for _, id := range ids {
		if user := Find(id, users); user != nil {
			res.Resolved = append(res.Resolved, user)
			continue
		}
		res.Missing = append(res.Missing, id)
	}

	if policy == MissingFail && len(res.Missing) > 0 {
		return res, &UnresolvedError{Missing: res.Missing}
	}
	return res, nil
}
