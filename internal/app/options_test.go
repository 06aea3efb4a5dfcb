package app

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/bundlemanifest/internal/config"
	"github.com/vk/bundlemanifest/internal/descriptor"
	"github.com/vk/bundlemanifest/internal/generate"
)

func TestBuildOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts, err := buildOptions(config.Default())

	require.NoError(t, err)
	require.Nil(t, opts.Filter)
	require.Nil(t, opts.Map)
	require.Nil(t, opts.Seed)
	require.NotNil(t, opts.Serialize)
}

func TestBuildOptions_UnknownFormatFails(t *testing.T) {
	t.Parallel()

	_, err := buildOptions(&config.Model{Format: "toml"})

	require.Error(t, err)
}

func TestBuildOptions_SeedCarriedOver(t *testing.T) {
	t.Parallel()

	seed := generate.Manifest{"vendor.js": "vendor.abc.js"}
	opts, err := buildOptions(&config.Model{Seed: seed})

	require.NoError(t, err)
	require.Equal(t, seed, opts.Seed)
}

func TestBuildOptions_ExcludeBecomesFilter(t *testing.T) {
	t.Parallel()

	opts, err := buildOptions(&config.Model{Exclude: []string{"*.map", "hot-update"}})
	require.NoError(t, err)
	require.NotNil(t, opts.Filter)

	require.False(t, opts.Filter(descriptor.File{Name: "main.js.map"}))
	require.False(t, opts.Filter(descriptor.File{Name: "main.0a1b.hot-update.js"}))
	require.True(t, opts.Filter(descriptor.File{Name: "main.js"}))
}

func TestBuildOptions_RenamesBecomeMap(t *testing.T) {
	t.Parallel()

	opts, err := buildOptions(&config.Model{
		Renames: []config.Rename{
			{From: regexp.MustCompile(`^js/`), To: "scripts/"},
			{From: regexp.MustCompile(`\.min\.`), To: "."},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, opts.Map)

	out := opts.Map(descriptor.File{Name: "js/app.min.js", Path: "js/app.min.js"})
	require.Equal(t, "scripts/app.js", out.Name)
	require.Equal(t, "js/app.min.js", out.Path)
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"*.map", "main.js.map", true},
		{"*.map", "assets/main.js.map", true}, // glob falls back to the base name
		{"*.map", "main.js", false},
		{"hot-update", "main.0a1b.hot-update.js", true},
		{"hot-update", "main.js", false},
		{"images/*", "images/logo.svg", true},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, matchPattern(tc.pattern, tc.name), "pattern %q against %q", tc.pattern, tc.name)
	}
}
