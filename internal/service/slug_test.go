package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Town Hall Reopens!", "town-hall-reopens"},
		{"  Leading & trailing  ", "leading-trailing"},
		{"UPPER case 123", "upper-case-123"},
		{"multi---separators___here", "multi-separators-here"},
		{"!!!", ""},
		{"Peringatan HUT RI ke-80", "peringatan-hut-ri-ke-80"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.input), "input %q", tc.input)
	}
}
