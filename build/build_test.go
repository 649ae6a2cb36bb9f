package build_test

import (
	"runtime/debug"
	"testing"

	"github.com/amp-labs/pretty/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	info, ok := build.Parse(`{
		"version": "v1.2.0",
		"git_commit": "abc123",
		"go_version": "go1.25.5",
		"dependencies": {"github.com/zeebo/xxh3": "v1.0.2"}
	}`)

	require.True(t, ok)
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Equal(t, "go1.25.5", info.GoVersion)
	assert.Equal(t, map[string]string{"github.com/zeebo/xxh3": "v1.0.2"}, info.Dependencies)
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	for _, js := range []string{"", "{}", "{not json"} {
		info, ok := build.Parse(js)
		assert.False(t, ok, js)
		assert.Nil(t, info, js)
	}
}

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	info := build.FromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.25.0",
		Main:      debug.Module{Path: "github.com/amp-labs/pretty", Version: "(devel)"},
		Deps:      []*debug.Module{{Path: "gopkg.in/yaml.v3", Version: "v3.0.1"}},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "linux"},
		},
	})

	assert.Equal(t, "(devel)", info.Version)
	assert.Equal(t, "go1.25.0", info.GoVersion)
	assert.Equal(t, "deadbeef", info.GitCommit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.GitDate)
	assert.True(t, info.GitModified)
	assert.Equal(t, map[string]string{"gopkg.in/yaml.v3": "v3.0.1"}, info.Dependencies)
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v9", build.Current(`{"version": "v9"}`).Version)
	assert.NotEmpty(t, build.Current("").GoVersion)
}
