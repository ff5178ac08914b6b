package resolve

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathMapping_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mapping *PathMapping
		wantErr bool
	}{
		{name: "nil mapping", mapping: nil},
		{name: "valid", mapping: &PathMapping{BaseDir: "/p", Patterns: []PathPattern{{Key: "@/*", Targets: []string{"src/*"}}}}},
		{name: "empty key", mapping: &PathMapping{BaseDir: "/p", Patterns: []PathPattern{{Key: "", Targets: []string{"src"}}}}, wantErr: true},
		{name: "two stars in key", mapping: &PathMapping{BaseDir: "/p", Patterns: []PathPattern{{Key: "*/*", Targets: []string{"src/*"}}}}, wantErr: true},
		{name: "two stars in target", mapping: &PathMapping{BaseDir: "/p", Patterns: []PathPattern{{Key: "@/*", Targets: []string{"*/*"}}}}, wantErr: true},
		{name: "no targets", mapping: &PathMapping{BaseDir: "/p", Patterns: []PathPattern{{Key: "@/*"}}}, wantErr: true},
		{name: "empty target", mapping: &PathMapping{BaseDir: "/p", Patterns: []PathPattern{{Key: "@/*", Targets: []string{""}}}}, wantErr: true},
		{name: "missing base dir", mapping: &PathMapping{Patterns: []PathPattern{{Key: "@/*", Targets: []string{"src/*"}}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mapping.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPathMapping)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathMapping_Candidates(t *testing.T) {
	base := filepath.FromSlash("/project/src")
	mapping := &PathMapping{
		BaseDir: base,
		Patterns: []PathPattern{
			{Key: "*", Targets: []string{"types/*"}},
			{Key: "@styles/*.css", Targets: []string{"styles/*.css"}},
			{Key: "@styles", Targets: []string{"styles/index.css"}},
			{Key: "@abs/*", Targets: []string{filepath.FromSlash("/shared/*")}},
		},
	}

	assert.Equal(t, []string{filepath.Join(base, "styles/index.css")}, mapping.Candidates("@styles"))
	assert.Equal(t, []string{filepath.Join(base, "types/@styles/a.css")}, mapping.Candidates("@styles/a.css"),
		"the first configured wildcard wins even when a later key is longer")
	assert.Equal(t, []string{filepath.Join(base, "types/lodash")}, mapping.Candidates("lodash"))

	only := &PathMapping{BaseDir: base, Patterns: mapping.Patterns[3:]}
	assert.Equal(t, []string{filepath.FromSlash("/shared/x")}, only.Candidates("@abs/x"))
	assert.Empty(t, only.Candidates("other"))

	var none *PathMapping
	assert.Nil(t, none.Candidates("anything"))
}

func TestPathMapping_BaseURLCandidate(t *testing.T) {
	mapping := &PathMapping{BaseDir: "/p", BaseURL: filepath.FromSlash("/p/src")}

	candidate, ok := mapping.BaseURLCandidate("lib/util")
	require.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/p/src/lib/util"), candidate)

	_, ok = (&PathMapping{BaseDir: "/p"}).BaseURLCandidate("lib/util")
	assert.False(t, ok)
}
