package namex

import (
	"testing"

	"github.com/avdenisov/roost/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Eggs", "eggs"},
		{"trims", "  nest  ", "nest"},
		{"spaces to hyphens", "my cool module", "my-cool-module"},
		{"keeps dots and underscores", "std_lib.v2", "std_lib.v2"},
		{"strips illegal runes", "hello!@#world", "helloworld"},
		{"collapses hyphen runs", "a -- b", "a-b"},
		{"trims hyphens", "-edge-", "edge"},
		{"empty input", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Canonicalize(tc.in))
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []string{"Eggs", "My Cool Module", " x--y ", "UPPER_case.v1", "日本語 pkg"}
	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), "not idempotent for %q", in)
	}
}

func TestKey(t *testing.T) {
	k, err := Key("Nest Box")
	require.NoError(t, err)
	assert.Equal(t, "nest-box", k)

	_, err = Key("   ")
	assert.ErrorIs(t, err, common.ErrInvalid)
}
