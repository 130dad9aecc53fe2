package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Identifier
		wantErr  bool
	}{
		{name: "number", input: `42`, expected: "42"},
		{name: "string", input: `"abc-1"`, expected: "abc-1"},
		{name: "numeric string", input: `"42"`, expected: "42"},
		{name: "null", input: `null`, expected: ""},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id Identifier
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestIdentifier_MarshalJSON(t *testing.T) {
	tests := []struct {
		id       Identifier
		expected string
	}{
		{id: "42", expected: `42`},
		{id: "-3", expected: `-3`},
		{id: "007", expected: `"007"`},
		{id: "user-9", expected: `"user-9"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestIdentifier_Equal(t *testing.T) {
	tests := []struct {
		a, b  Identifier
		equal bool
	}{
		{a: ParseIdentifier(" 1 "), b: "1", equal: true},
		{a: "1", b: "1.0", equal: true},
		{a: "1", b: "1e0", equal: true},
		{a: "-2.50", b: "-2.5", equal: true},
		{a: "9007199254740993", b: "9007199254740992", equal: false},
		{a: "1", b: "2", equal: false},
		{a: "abc", b: "abc", equal: true},
		{a: "abc", b: "ABC", equal: false},
		{a: "0x1", b: "1", equal: false},
		{a: "1/1", b: "1", equal: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"="+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestIdentifier_IsZero(t *testing.T) {
	assert.True(t, Identifier("  ").IsZero())
	assert.False(t, Identifier("0").IsZero())
}

func TestIdentifier_UnmarshalKeepsNumberSpelling(t *testing.T) {
	var id Identifier
	require.NoError(t, json.Unmarshal([]byte(`1.0`), &id))
	assert.Equal(t, Identifier("1.0"), id)
	assert.True(t, id.Equal(ParseIdentifier("1")))
}
