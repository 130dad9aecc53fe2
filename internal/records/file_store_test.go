package records

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonathan/user-news-etl/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "users.json"))

	users := []*types.User{
		{
			ID:   "1",
			Name: "José",
			News: []types.NewsEntry{
				{ID: "1", Icon: DefaultIcon, Description: "Invista <já> & ganhe"},
				{Icon: DefaultIcon, Description: "Invest early!"},
			},
		},
		{ID: "user-2", Name: "Ana", News: []types.NewsEntry{}},
	}

	require.NoError(t, store.Save(ctx, users))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(users, loaded, ignoreDocs); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// ignoreDocs skips the remembered source objects when comparing records
var ignoreDocs = cmpopts.IgnoreUnexported(types.User{}, types.NewsEntry{})

func TestFileStore_AugmentKeepsUnknownFields(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
    {
        "id": 1,
        "name": "Ana",
        "email": "a@x.io",
        "news": [],
        "account": {"number": "01.097954-4", "balance": 624.12, "type": "gold"}
    },
    {"id": 2.0, "name": "Bia", "news": [], "segment": "select"}
]`), 0o644))
	store := NewFileStore(path)

	users, err := store.Load(ctx)
	require.NoError(t, err)

	ana := Find(types.ParseIdentifier("1"), users)
	require.NotNil(t, ana)
	require.NoError(t, Augment(ana, "Invest early!", ""))

	bia := Find(types.ParseIdentifier("2"), users)
	require.NotNil(t, bia, "numeric ids match by value")
	require.NoError(t, Augment(bia, "Start today!", ""))

	require.NoError(t, store.Save(ctx, users))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var saved []map[string]any
	require.NoError(t, json.Unmarshal(raw, &saved))
	require.Len(t, saved, 2)

	assert.Equal(t, "a@x.io", saved[0]["email"])
	account, ok := saved[0]["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gold", account["type"])
	assert.Equal(t, "01.097954-4", account["number"])
	assert.Len(t, saved[0]["news"], 1)

	assert.Equal(t, "select", saved[1]["segment"])
	assert.Contains(t, string(raw), `"id": 2.0,`, "ids are written back as read")
	assert.NotContains(t, string(raw), `"2.0"`)

	// Member order of the cached objects is kept
	assert.Less(t, strings.Index(string(raw), `"email"`), strings.Index(string(raw), `"account"`))
}

func TestFileStore_WritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := NewFileStore(path)

	users := []*types.User{{
		ID:   "1",
		Name: "Conceição",
		News: []types.NewsEntry{{Icon: DefaultIcon, Description: "Invista & cresça <sempre>"}},
	}}
	require.NoError(t, store.Save(context.Background(), users))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "Conceição")
	assert.Contains(t, content, "Invista & cresça <sempre>")
	assert.NotContains(t, content, `\u00`)
	assert.Contains(t, content, "\n        \"id\": 1,")
	assert.True(t, strings.HasSuffix(content, "\n"))
}

func TestFileStore_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := NewFileStore(path)

	exists, err := store.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("not even json"), 0o644))
	exists, err = store.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileStore(filepath.Join(dir, "absent.json")).Load(context.Background())
	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.Contains(t, err.Error(), "failed to read cache file")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": 1}`), 0o644))
	_, err = NewFileStore(bad).Load(context.Background())
	require.ErrorAs(t, err, &persistErr)
	assert.Contains(t, err.Error(), "failed to unmarshal JSON")
}

func TestFileStore_SaveFailurePropagates(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing-dir", "users.json"))

	err := store.Save(context.Background(), []*types.User{newUser("1", "Ana")})
	require.Error(t, err)

	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.Contains(t, err.Error(), "failed to write cache file")
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultCachePath, NewFileStore("").Name())
}
