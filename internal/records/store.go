// Package records owns the cached user records: loading and saving them,
// populating the cache once, resolving identifiers and appending news.
package records

import (
	"context"

	"github.com/jonathan/user-news-etl/internal/types"
)

// Store is the durable home of the full set of user records.
// Save always replaces the whole set.
type Store interface {
	// Exists reports whether the store holds a cache document at all
	Exists(ctx context.Context) (bool, error)
	// Load returns every cached record in stored order
	Load(ctx context.Context) ([]*types.User, error)
	// Save overwrites the store with users
	Save(ctx context.Context, users []*types.User) error
	// Name identifies the store in logs and errors
	Name() string
}

// Seeder produces the single record the cache is bootstrapped from
type Seeder interface {
	Seed(ctx context.Context) (*types.User, error)
	Source() string
}

// Initializer is implemented by stores that can create-if-absent in one step.
// EnsurePopulated prefers it over Exists followed by Save.
type Initializer interface {
	SaveIfAbsent(ctx context.Context, users []*types.User) (bool, error)
}
