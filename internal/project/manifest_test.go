package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "")
	src := filepath.Join(root, "src", "deep", "main.c")
	writeFile(t, src, "int main(void) { return 0; }\n")

	path, ok, err := FindManifest(src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, ManifestName), path)

	dir, ok, err := FindProjectRoot(filepath.Dir(src))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, dir)
}

func TestFindManifestMissing(t *testing.T) {
	dir := t.TempDir()
	// TempDir lives under the system temp directory, which has no manifest
	// in any sane environment.
	m, err := FindAndLoad(dir)
	require.NoError(t, err)
	if m != nil {
		t.Skipf("unexpected manifest above temp dir: %s", m.Path)
	}
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	writeFile(t, path, `
[preprocess]
include_dirs = ["include", "/usr/include"]
defines = { DEBUG = "1", NAME = "rcc" }
max_include_depth = 16

[parse]
max_diagnostics = 50
typedefs = ["size_t", "FILE"]

[trace]
level = "phase"
format = "ndjson"

[sources]
include = ["src/**/*.c"]
exclude = ["src/gen/**"]
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, root, m.Root)
	assert.Equal(t, []string{filepath.Join(root, "include"), "/usr/include"}, m.Preprocess.IncludeDirs)
	assert.Equal(t, []string{"DEBUG=1", "NAME=rcc"}, m.DefineList())
	assert.Equal(t, 16, m.Preprocess.MaxIncludeDepth)
	assert.True(t, m.PreprocessEnabled())
	assert.Equal(t, 50, m.Parse.MaxDiagnostics)
	assert.Equal(t, []string{"size_t", "FILE"}, m.Parse.Typedefs)
	assert.Equal(t, "phase", m.Trace.Level)
	assert.Equal(t, []string{"src/**/*.c"}, m.Sources.Include)
}

func TestLoadManifestDisabledPreprocess(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "[preprocess]\nenabled = false\n")
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.False(t, m.PreprocessEnabled())
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"unknown key", "[parse]\nmax_diags = 3\n", ErrManifestInvalid},
		{"unknown table", "[linker]\nflags = []\n", ErrManifestInvalid},
		{"bad trace level", "[trace]\nlevel = \"loud\"\n", ErrBadTraceLevel},
		{"bad trace format", "[trace]\nformat = \"xml\"\n", ErrManifestInvalid},
		{"negative depth", "[preprocess]\nmax_include_depth = -1\n", ErrManifestInvalid},
		{"bad define", "[preprocess]\ndefines = { \"A B\" = \"1\" }\n", ErrManifestInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadManifest(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoadManifestSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "[parse\n")
	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a := Digest{1}
	b := Digest{2}
	c := Digest{3}
	assert.Equal(t, Combine(a, b, c), Combine(a, b, c))
	assert.NotEqual(t, Combine(a, b, c), Combine(a, c, b))
	assert.NotEqual(t, Combine(a), a)
}
