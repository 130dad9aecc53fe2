package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/user-news-etl/internal/records"
	"github.com/jonathan/user-news-etl/internal/types"
)

// UserStore keeps the cache document in one record_caches row
type UserStore struct {
	db   *DB
	name string
}

// NewUserStore returns a store for the named cache row
func NewUserStore(database *DB, name string) *UserStore {
	if name == "" {
		name = DefaultCacheName
	}
	return &UserStore{db: database, name: name}
}

// Name identifies the store in logs
func (s *UserStore) Name() string {
	return "postgres:" + s.name
}

// Exists reports whether the cache row is present
func (s *UserStore) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM record_caches WHERE name = $1)`,
		s.name,
	).Scan(&exists)
	if err != nil {
		return false, &records.PersistError{Store: s.Name(), Message: "failed to check cache row", Cause: err}
	}
	return exists, nil
}

// Load decodes the cache document
func (s *UserStore) Load(ctx context.Context) ([]*types.User, error) {
	var document []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT document FROM record_caches WHERE name = $1`,
		s.name,
	).Scan(&document)
	if err == pgx.ErrNoRows {
		return nil, &records.PersistError{Store: s.Name(), Message: "cache row does not exist"}
	}
	if err != nil {
		return nil, &records.PersistError{Store: s.Name(), Message: "failed to read cache row", Cause: err}
	}

	users, err := records.Decode(document)
	if err != nil {
		return nil, &records.PersistError{Store: s.Name(), Message: "failed to unmarshal JSON", Cause: err}
	}
	return users, nil
}

// Save replaces the cache document in a single statement
func (s *UserStore) Save(ctx context.Context, users []*types.User) error {
	document, err := records.Encode(users)
	if err != nil {
		return &records.PersistError{Store: s.Name(), Message: "failed to marshal records", Cause: err}
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO record_caches (name, document)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET document = $2, updated_at = NOW()`,
		s.name, document,
	)
	if err != nil {
		return &records.PersistError{Store: s.Name(), Message: "failed to write cache row", Cause: err}
	}
	return nil
}

// SaveIfAbsent inserts the document only when no row exists yet
func (s *UserStore) SaveIfAbsent(ctx context.Context, users []*types.User) (bool, error) {
	document, err := records.Encode(users)
	if err != nil {
		return false, &records.PersistError{Store: s.Name(), Message: "failed to marshal records", Cause: err}
	}

	tag, err := s.db.pool.Exec(ctx,
		`INSERT INTO record_caches (name, document)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`,
		s.name, document,
	)
	if err != nil {
		return false, &records.PersistError{Store: s.Name(), Message: "failed to write cache row", Cause: err}
	}
	return tag.RowsAffected() == 1, nil
}
