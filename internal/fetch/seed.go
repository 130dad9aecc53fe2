package fetch

import (
	"context"

	"github.com/jonathan/user-news-etl/internal/types"
)

// DefaultSeedURL serves the single user record the cache is bootstrapped from
const DefaultSeedURL = "https://digitalinnovationone.github.io/santander-dev-week-2023-api/mocks/find_one.json"

// HTTPSeeder fetches the seed user record over HTTP
type HTTPSeeder struct {
	URL     string
	Options *Options
}

// NewHTTPSeeder creates a seeder for the given endpoint; an empty URL means DefaultSeedURL
func NewHTTPSeeder(seedURL string, opts *Options) *HTTPSeeder {
	if seedURL == "" {
		seedURL = DefaultSeedURL
	}
	return &HTTPSeeder{URL: seedURL, Options: opts}
}

// Seed performs one GET against the seed endpoint and decodes a single user
func (s *HTTPSeeder) Seed(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := JSON(ctx, s.URL, s.Options, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Source returns the endpoint, used in logs and errors
func (s *HTTPSeeder) Source() string {
	return s.URL
}
