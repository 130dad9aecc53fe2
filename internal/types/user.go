// Package types provides type definitions for structured data used throughout the news ETL.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// User is one cached user record. Only ID, Name and News take part in the
// pipeline. Every other member of the cached object (account, card,
// features, anything a newer seed adds) is kept as read and written back
// in its original position.
type User struct {
	ID   Identifier
	Name string
	News []NewsEntry

	doc object
}

// HasNews reports whether the record carries a news field at all.
// A record decoded from JSON without "news" (or with "news": null) has a nil slice.
func (u *User) HasNews() bool {
	return u.News != nil
}

// Field returns the raw JSON of any member of the cached object, including
// the ones User does not model.
func (u *User) Field(key string) (json.RawMessage, bool) {
	return u.doc.get(key)
}

// UnmarshalJSON decodes id, name and news and remembers the whole object
func (u *User) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("invalid user record: %w", err)
	}

	decoded := User{doc: doc}
	if raw, ok := doc.get("id"); ok {
		if err := json.Unmarshal(raw, &decoded.ID); err != nil {
			return fmt.Errorf("invalid user record: %w", err)
		}
	}
	if raw, ok := doc.get("name"); ok {
		if err := json.Unmarshal(raw, &decoded.Name); err != nil {
			return fmt.Errorf("invalid user %s: name: %w", decoded.ID, err)
		}
	}
	if raw, ok := doc.get("news"); ok {
		if err := json.Unmarshal(raw, &decoded.News); err != nil {
			return fmt.Errorf("invalid user %s: news: %w", decoded.ID, err)
		}
	}

	*u = decoded
	return nil
}

// MarshalJSON writes the remembered object with id, name and news updated in
// place. A record built in code has no remembered object and is written as
// id, name, news.
func (u User) MarshalJSON() ([]byte, error) {
	doc := u.doc.clone()
	fresh := doc == nil

	_, hasID := doc.get("id")
	if fresh || hasID || !u.ID.IsZero() {
		raw, err := keepOrMarshal(doc, "id", u.ID)
		if err != nil {
			return nil, err
		}
		doc = doc.set("id", raw)
	}

	_, hasName := doc.get("name")
	if fresh || hasName || u.Name != "" {
		raw, err := keepOrMarshal(doc, "name", u.Name)
		if err != nil {
			return nil, err
		}
		doc = doc.set("name", raw)
	}

	_, hasNews := doc.get("news")
	if fresh || hasNews || u.News != nil {
		raw, err := marshal(u.News)
		if err != nil {
			return nil, err
		}
		doc = doc.set("news", raw)
	}

	return encodeObject(doc)
}

// NewsEntry is one message shown in a user's news feed.
// Entries are appended, never edited; an entry read from the cache is
// written back with all of its members.
type NewsEntry struct {
	ID          Identifier
	Icon        string
	Description string

	doc object
}

// UnmarshalJSON decodes id, icon and description and remembers the object
func (n *NewsEntry) UnmarshalJSON(data []byte) error {
	doc, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("invalid news entry: %w", err)
	}

	decoded := NewsEntry{doc: doc}
	if raw, ok := doc.get("id"); ok {
		if err := json.Unmarshal(raw, &decoded.ID); err != nil {
			return fmt.Errorf("invalid news entry: %w", err)
		}
	}
	if raw, ok := doc.get("icon"); ok {
		if err := json.Unmarshal(raw, &decoded.Icon); err != nil {
			return fmt.Errorf("invalid news entry icon: %w", err)
		}
	}
	if raw, ok := doc.get("description"); ok {
		if err := json.Unmarshal(raw, &decoded.Description); err != nil {
			return fmt.Errorf("invalid news entry description: %w", err)
		}
	}

	*n = decoded
	return nil
}

// MarshalJSON writes the remembered object, or id (when set), icon and
// description for a new entry.
func (n NewsEntry) MarshalJSON() ([]byte, error) {
	doc := n.doc.clone()
	fresh := doc == nil

	_, hasID := doc.get("id")
	if hasID || !n.ID.IsZero() {
		raw, err := keepOrMarshal(doc, "id", n.ID)
		if err != nil {
			return nil, err
		}
		doc = doc.set("id", raw)
	}

	for _, field := range []struct {
		key   string
		value string
	}{
		{"icon", n.Icon},
		{"description", n.Description},
	} {
		if _, ok := doc.get(field.key); !ok && !fresh && field.value == "" {
			continue
		}
		raw, err := keepOrMarshal(doc, field.key, field.value)
		if err != nil {
			return nil, err
		}
		doc = doc.set(field.key, raw)
	}

	return encodeObject(doc)
}
