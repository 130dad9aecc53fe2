package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/jonathan/user-news-etl/internal/types"
)

// DefaultCachePath is where the file store keeps the cache document
const DefaultCachePath = "mock_users.json"

// indent matches the layout of the hand-maintained cache files
const indent = "    "

// FileStore keeps the records as one JSON array in a local file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultCachePath
	}
	return &FileStore{path: path}
}

// Name returns the file path
func (s *FileStore) Name() string {
	return s.path
}

// Exists reports whether the cache file is present
func (s *FileStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &PersistError{Store: s.path, Message: "failed to stat cache file", Cause: err}
}

// Load reads and decodes the cache file
func (s *FileStore) Load(_ context.Context) ([]*types.User, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &PersistError{Store: s.path, Message: "failed to read cache file", Cause: err}
	}

	users, err := Decode(content)
	if err != nil {
		return nil, &PersistError{Store: s.path, Message: "failed to unmarshal JSON", Cause: err}
	}
	return users, nil
}

// Save writes every record in one call, replacing the file
func (s *FileStore) Save(_ context.Context, users []*types.User) error {
	data, err := Encode(users)
	if err != nil {
		return &PersistError{Store: s.path, Message: "failed to marshal records", Cause: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &PersistError{Store: s.path, Message: "failed to write cache file", Cause: err}
	}
	return nil
}

// Encode renders records the way every store persists them: indented JSON
// with non-ASCII and HTML characters kept literal.
func Encode(users []*types.User) ([]byte, error) {
	if users == nil {
		users = []*types.User{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(users); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a document produced by Encode
func Decode(data []byte) ([]*types.User, error) {
	var users []*types.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}
