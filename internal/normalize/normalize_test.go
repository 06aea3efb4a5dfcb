package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vk/bundlemanifest/internal/descriptor"
)

func TestApply_BasePathPrefixesNamesOnly(t *testing.T) {
	t.Parallel()

	in := []descriptor.File{{Name: "main.js", Path: "main.1a2b3c.js"}}
	out := Normalizer{BasePath: "/static/"}.Apply(in)

	require.Equal(t, "/static/main.js", out[0].Name)
	require.Equal(t, "main.1a2b3c.js", out[0].Path)
}

func TestApply_PublicPathPrefixesPathsOnly(t *testing.T) {
	t.Parallel()

	in := []descriptor.File{{Name: "main.js", Path: "main.1a2b3c.js"}}
	out := Normalizer{PublicPath: "https://cdn.example.com/"}.Apply(in)

	require.Equal(t, "main.js", out[0].Name)
	require.Equal(t, "https://cdn.example.com/main.1a2b3c.js", out[0].Path)
}

func TestApply_CanonicalizesSeparators(t *testing.T) {
	t.Parallel()

	in := []descriptor.File{{Name: `images\logo.svg`, Path: `images\logo.abc.svg`}}
	out := Normalizer{}.Apply(in)

	require.Equal(t, "images/logo.svg", out[0].Name)
	require.Equal(t, "images/logo.abc.svg", out[0].Path)
}

func TestApply_PrefixesBeforeCanonicalization(t *testing.T) {
	t.Parallel()

	// A prefix carrying backslashes must itself be canonicalized.
	in := []descriptor.File{{Name: "main.js", Path: "main.js"}}
	out := Normalizer{BasePath: `assets\`}.Apply(in)

	require.Equal(t, "assets/main.js", out[0].Name)
}

func TestApply_InputUntouched(t *testing.T) {
	t.Parallel()

	in := []descriptor.File{{Name: "main.js", Path: "main.js"}}
	Normalizer{BasePath: "/x/"}.Apply(in)

	require.Equal(t, "main.js", in[0].Name)
}

func TestApply_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-zA-Z0-9./\\_-]{1,40}`).Draw(rt, "name")
		path := rapid.StringMatching(`[a-zA-Z0-9./\\_-]{1,40}`).Draw(rt, "path")
		basePath := rapid.StringMatching(`[a-zA-Z0-9/_-]{0,10}`).Draw(rt, "basePath")
		publicPath := rapid.StringMatching(`[a-zA-Z0-9/_-]{0,10}`).Draw(rt, "publicPath")

		n := Normalizer{BasePath: basePath, PublicPath: publicPath}
		out := n.Apply([]descriptor.File{{Name: name, Path: path}})

		// No backslash survives normalization.
		require.NotContains(rt, out[0].Name, `\`)
		require.NotContains(rt, out[0].Path, `\`)

		// Prefixes land on the right field.
		require.True(rt, strings.HasPrefix(out[0].Name, strings.ReplaceAll(basePath, `\`, "/")))
		require.True(rt, strings.HasPrefix(out[0].Path, strings.ReplaceAll(publicPath, `\`, "/")))

		// Normalizing an already-normalized descriptor with no prefixes is
		// the identity.
		again := Normalizer{}.Apply(out)
		require.Equal(rt, out, again)
	})
}
