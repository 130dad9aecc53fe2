package records

import (
	"context"

	"github.com/jonathan/user-news-etl/internal/types"
)

// EnsurePopulated seeds the store from the remote source when it holds no
// cache document. An existing document is never read, merged or refreshed,
// and the seeder is not called. It reports whether a seed was written.
func EnsurePopulated(ctx context.Context, store Store, seeder Seeder) (bool, error) {
	exists, err := store.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	seed, err := seeder.Seed(ctx)
	if err != nil {
		return false, &RemoteFetchError{Source: seeder.Source(), Cause: err}
	}
	users := []*types.User{seed}

	if init, ok := store.(Initializer); ok {
		return init.SaveIfAbsent(ctx, users)
	}
	if err := store.Save(ctx, users); err != nil {
		return false, err
	}
	return true, nil
}
