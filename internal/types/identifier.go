package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Identifier names a user. It may arrive as a JSON number, a JSON string or a
// CSV cell. Two identifiers that both read as numbers are compared by value
// ("1" equals "1.0"); anything else is compared by its trimmed text.
type Identifier string

// ParseIdentifier builds an Identifier from raw text such as a CSV cell.
func ParseIdentifier(raw string) Identifier {
	return Identifier(strings.TrimSpace(raw))
}

// String returns the identifier text
func (id Identifier) String() string {
	return string(id)
}

// Equal reports whether two identifiers name the same user
func (id Identifier) Equal(other Identifier) bool {
	a, b := strings.TrimSpace(string(id)), strings.TrimSpace(string(other))
	if a == b {
		return true
	}
	x, okA := numericValue(a)
	y, okB := numericValue(b)
	return okA && okB && x.Cmp(y) == 0
}

// numericValue parses decimal or exponent notation exactly
func numericValue(s string) (*big.Rat, bool) {
	if s == "" || strings.ContainsAny(s, "/xXpPbBoO_") {
		return nil, false
	}
	return new(big.Rat).SetString(s)
}

// IsZero reports whether the identifier is empty
func (id Identifier) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// isCanonicalInt reports whether the text is an integer in canonical form,
// so that encoding it as a JSON number loses nothing ("007" is not).
func (id Identifier) isCanonicalInt() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return false
	}
	return strconv.FormatInt(n, 10) == string(id)
}

// MarshalJSON writes canonical integers as numbers and everything else as
// strings. Identifiers read from a cached record keep their original
// spelling through the record's own encoding.
func (id Identifier) MarshalJSON() ([]byte, error) {
	if id.isCanonicalInt() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string
func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid identifier %s: %w", data, err)
		}
		*id = Identifier(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid identifier %s: %w", data, err)
	}
	*id = Identifier(n.String())
	return nil
}
