package plugin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/bundlemanifest/internal/build"
	"github.com/vk/bundlemanifest/internal/generate"
	"github.com/vk/bundlemanifest/internal/simhost"
	"github.com/vk/bundlemanifest/internal/testutil"
)

func TestNew_DefaultSeedIsFreshMap(t *testing.T) {
	t.Parallel()

	p := New(Options{})

	seed, ok := p.Seed().(generate.Manifest)
	require.True(t, ok)
	require.Empty(t, seed)
}

func TestNew_CallerSeedKept(t *testing.T) {
	t.Parallel()

	seed := generate.Manifest{"vendor.js": "vendor.js"}
	p := New(Options{Seed: seed})

	require.Equal(t, seed, p.Seed())
}

func TestApply_UnsupportedHostFails(t *testing.T) {
	t.Parallel()

	err := New(Options{}).Apply("not a host")

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to attach manifest plugin")
}

func TestPlugin_SingleBuild(t *testing.T) {
	t.Parallel()

	p := New(Options{})
	h := simhost.New()
	require.NoError(t, p.Apply(h))

	comp, sink := testutil.SingleChunkCompilation("main", "main.js")
	require.NoError(t, h.Run(testutil.Context(t), comp, nil))

	content, ok := sink.Get("manifest.json")
	require.True(t, ok)

	var manifest map[string]string
	require.NoError(t, json.Unmarshal(content, &manifest))
	require.Equal(t, map[string]string{"main.js": "main.js"}, manifest)
}

func TestPlugin_CollectionErrorFailsBuild(t *testing.T) {
	t.Parallel()

	p := New(Options{})
	h := simhost.New()
	require.NoError(t, p.Apply(h))

	comp := &build.Compilation{
		OutputDir: "/dist",
		Chunks:    []build.Chunk{{Name: "main", Files: []string{""}}},
		Sink:      testutil.NewMemSink(),
	}

	err := h.Run(testutil.Context(t), comp, nil)

	require.Error(t, err)
	require.Contains(t, err.Error(), "descriptor collection failed")
}

func TestPlugin_ModuleAssetStateResetsBetweenBuilds(t *testing.T) {
	t.Parallel()

	p := New(Options{})
	h := simhost.New()
	require.NoError(t, p.Apply(h))
	ctx := testutil.Context(t)

	// First build records a module asset.
	compA := &build.Compilation{
		OutputDir: "/dist",
		Assets:    []build.Asset{{Name: "images/logo.abc.svg"}},
		Sink:      testutil.NewMemSink(),
	}
	require.NoError(t, h.Run(ctx, compA, map[string]string{"images/logo.abc.svg": "src/logo.svg"}))

	// Second build reports the same asset without the association; the
	// registry must have been reset at compilation start.
	compB := &build.Compilation{
		OutputDir: "/dist",
		Assets:    []build.Asset{{Name: "images/logo.abc.svg"}},
		Sink:      testutil.NewMemSink(),
	}
	require.NoError(t, h.Run(ctx, compB, nil))

	seed := p.Seed().(generate.Manifest)
	require.Equal(t, "images/logo.abc.svg", seed["images/logo.abc.svg"])
}
