package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity_RoundTrip(t *testing.T) {
	in := Identity{ID: "u-1", Username: "alice", Email: "alice@example.org"}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	got, err := ParseIdentity(data)
	require.NoError(t, err)
	assert.Equal(t, in, *got)
}

func TestParseIdentity_EmailOptional(t *testing.T) {
	data, err := json.Marshal(Identity{ID: "u-1", Username: "alice"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "email")

	got, err := ParseIdentity(data)
	require.NoError(t, err)
	assert.Empty(t, got.Email)
}

func TestParseIdentity_Rejects(t *testing.T) {
	cases := map[string]string{
		"broken json":      `{"id":`,
		"not an object":    `"alice"`,
		"array":            `[1,2]`,
		"number":           `42`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseIdentity([]byte(raw))
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestParseIdentity_KeepsBlankFields(t *testing.T) {
	cases := map[string]Identity{
		`{"username":"alice"}`: {Username: "alice"},
		`{"id":"u-1"}`:         {ID: "u-1"},
		`{}`:                   {},
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseIdentity([]byte(raw))
			require.NoError(t, err)
			assert.Equal(t, want, *got)
		})
	}
}

func TestParseIdentity_Null(t *testing.T) {
	got, err := ParseIdentity([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentity_Clone(t *testing.T) {
	var nilID *Identity
	assert.Nil(t, nilID.Clone())

	orig := &Identity{ID: "1", Username: "bob"}
	c := orig.Clone()
	c.Username = "mallory"
	assert.Equal(t, "bob", orig.Username)
}

func TestTab_String(t *testing.T) {
	assert.Equal(t, "t1\tsong.gp5\t42 bytes", Tab{ID: "t1", Filename: "song.gp5", Size: 42}.String())
	assert.Equal(t, "t2\triff.txt", Tab{ID: "t2", Filename: "riff.txt"}.String())
}
