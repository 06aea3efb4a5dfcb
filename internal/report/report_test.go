package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	t.Parallel()

	p := writeReport(t, t.TempDir(), "build.json", `{
		"outputDir": "dist",
		"publicPath": "https://cdn.example.com/",
		"chunks": [{"name": "main", "files": ["main.1a2b3c.js"], "initial": true}],
		"assets": [{"name": "main.1a2b3c.js", "chunks": ["main"]}],
		"moduleAssets": {"images/logo.abc.svg": "src/images/logo.svg"}
	}`)

	rep, err := Load(p)

	require.NoError(t, err)
	require.Equal(t, "dist", rep.OutputDir)
	require.Equal(t, "https://cdn.example.com/", rep.PublicPath)
	require.Len(t, rep.Chunks, 1)
	require.True(t, rep.Chunks[0].Initial)
	require.Equal(t, "src/images/logo.svg", rep.ModuleAssets["images/logo.abc.svg"])
}

func TestLoad_ToleratesCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	p := writeReport(t, t.TempDir(), "build.json", `{
		// hand-trimmed replay of the 2026-08 release build
		"outputDir": "dist",
		"chunks": [
			{"name": "main", "files": ["main.js"], "initial": true},
		],
	}`)

	rep, err := Load(p)

	require.NoError(t, err)
	require.Len(t, rep.Chunks, 1)
}

func TestLoad_MalformedFails(t *testing.T) {
	t.Parallel()

	p := writeReport(t, t.TempDir(), "build.json", `{"chunks": "not-a-list"}`)

	_, err := Load(p)

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode report")
}

func TestDiscover_FilesAndDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "reports")
	require.NoError(t, os.Mkdir(sub, 0o755))
	b := writeReport(t, sub, "b.json", `{}`)
	a := writeReport(t, sub, "a.json", `{}`)
	single := writeReport(t, dir, "single.json", `{}`)

	found, err := Discover([]string{single, sub})

	require.NoError(t, err)
	// The explicit file first, then the directory's files sorted.
	require.Equal(t, []string{single, a, b}, found)
}

func TestDiscover_EmptyDirectoryFails(t *testing.T) {
	t.Parallel()

	_, err := Discover([]string{t.TempDir()})

	require.Error(t, err)
	require.Contains(t, err.Error(), "no .json files")
}

func TestDiscover_MissingPathFails(t *testing.T) {
	t.Parallel()

	_, err := Discover([]string{filepath.Join(t.TempDir(), "nope.json")})

	require.Error(t, err)
}

func TestCompilation_ResolvesRelativeOutputDir(t *testing.T) {
	t.Parallel()

	rep := &Report{
		OutputDir: "dist",
		Chunks:    []ChunkRecord{{Name: "main", Files: []string{"main.js"}}},
		Assets:    []AssetRecord{{Name: "main.js", Chunks: []string{"main"}}},
	}

	comp := rep.Compilation("/work", nil)

	require.Equal(t, filepath.Join("/work", "dist"), comp.OutputDir)
	require.Len(t, comp.Chunks, 1)
	require.Equal(t, "main", comp.Chunks[0].Name)
	require.Len(t, comp.Assets, 1)
}

func TestCompilation_DefaultsOutputDir(t *testing.T) {
	t.Parallel()

	comp := (&Report{}).Compilation("/work", nil)

	require.Equal(t, filepath.Join("/work", "dist"), comp.OutputDir)
}

func TestCompilation_KeepsAbsoluteOutputDir(t *testing.T) {
	t.Parallel()

	comp := (&Report{OutputDir: "/out"}).Compilation("/work", nil)

	require.Equal(t, "/out", comp.OutputDir)
}
