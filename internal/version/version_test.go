package version

import (
	"runtime/debug"
	"testing"

	"github.com/teleivo/assertive/assert"
)

func TestVersion(t *testing.T) {
	assert.True(t, Version() != "", "Version() must not be empty")
}

func TestDevel(t *testing.T) {
	tests := map[string]struct {
		in   []debug.BuildSetting
		want string
	}{
		"NoVCS": {
			want: "devel",
		},
		"Clean": {
			in: []debug.BuildSetting{
				{Key: "vcs", Value: "git"},
				{Key: "vcs.revision", Value: "4f1c2a9e8b7d6c5b4a39281706f5e4d3c2b1a098"},
				{Key: "vcs.modified", Value: "false"},
			},
			want: "devel 4f1c2a9e8b7d",
		},
		"Dirty": {
			in: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "4f1c2a9"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: "devel 4f1c2a9+dirty",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.EqualValues(t, devel(test.in), test.want, "devel(%v)", test.in)
		})
	}
}
