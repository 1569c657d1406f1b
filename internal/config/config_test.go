package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig is a test helper that writes content to name inside a
// fresh temporary directory and returns the full path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- Layout tests ---

// TestDefault_DerivedPaths verifies that the defaults reproduce the kernel
// repository layout when invoked from the kernel directory.
func TestDefault_DerivedPaths(t *testing.T) {
	l := Default()

	assert.Equal(t, filepath.Join("..", "user", "src", "bin"), l.SourceRoot())
	assert.Equal(t, filepath.Join("..", "user", "target", "riscv64gc-unknown-none-elf", "release"), l.BinaryRoot())
	assert.Equal(t, filepath.Join("..", "kernel", "src", "app.asm"), l.Output())
	assert.Equal(t, filepath.Join("..", "kernel"), l.Anchor())
	assert.Empty(t, Validate(l), "defaults must be valid")
}

// TestLayout_Merge checks that only non-empty fields override.
func TestLayout_Merge(t *testing.T) {
	merged := Default().Merge(Layout{
		TargetTriple: "x86_64-unknown-none",
		LabelPrefix:  "prog",
	})

	assert.Equal(t, "x86_64-unknown-none", merged.TargetTriple)
	assert.Equal(t, "prog", merged.LabelPrefix)
	assert.Equal(t, DefaultRootDir, merged.RootDir, "unset fields keep their default")
	assert.Equal(t, DefaultSection, merged.Section)
}

// --- Load tests ---

// TestLoad_JSONC verifies that comments and trailing commas are accepted.
func TestLoad_JSONC(t *testing.T) {
	path := writeConfig(t, "appbuild.jsonc", `{
		// build for the debug profile
		"profile": "debug",
		"rootDir": "/src/os", /* absolute root */
	}`)

	l, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", l.Profile)
	assert.Equal(t, "/src/os", l.RootDir)
	assert.Equal(t, DefaultTargetTriple, l.TargetTriple)
}

// TestLoad_JSONUnknownField rejects misspelled keys.
func TestLoad_JSONUnknownField(t *testing.T) {
	path := writeConfig(t, "appbuild.json", `{"targetTripel": "x"}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targetTripel")
}

// TestLoad_YAML verifies YAML decoding.
func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "appbuild.yaml", "sourceExt: .c\nsection: .data.user\n")

	l, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ".c", l.SourceExt)
	assert.Equal(t, ".data.user", l.Section)
	assert.Equal(t, DefaultOutputPath, l.OutputPath)
}

// TestLoad_EmptyFiles treats empty documents as "no overrides".
func TestLoad_EmptyFiles(t *testing.T) {
	for _, name := range []string{"appbuild.json", "appbuild.yml", "appbuild.hcl"} {
		t.Run(name, func(t *testing.T) {
			l, err := Load(writeConfig(t, name, ""))
			require.NoError(t, err)
			assert.Equal(t, Default(), l)
		})
	}
}

// TestLoad_HCL verifies HCL attribute decoding.
func TestLoad_HCL(t *testing.T) {
	path := writeConfig(t, "appbuild.hcl", `
target_triple = "aarch64-unknown-none"
anchor_dir    = "kernel/src"
`)

	l, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "aarch64-unknown-none", l.TargetTriple)
	assert.Equal(t, "kernel/src", l.AnchorDir)
	assert.Equal(t, DefaultProfile, l.Profile)
}

// TestLoad_HCLUnknownAttribute rejects attributes the layout does not have.
func TestLoad_HCLUnknownAttribute(t *testing.T) {
	path := writeConfig(t, "appbuild.hcl", `triple = "x"`)

	_, err := Load(path)
	assert.Error(t, err)
}

// TestLoad_UnsupportedExtension fails for unknown formats.
func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "appbuild.toml", `profile = "debug"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

// TestLoad_MissingFile reports a read error.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "appbuild.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

// --- Find tests ---

// TestFind_Priority verifies that .jsonc wins over .yaml when both exist.
func TestFind_Priority(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "appbuild.yaml"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "appbuild.jsonc"), nil, 0o644))

	path, ok := Find(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "appbuild.jsonc"), path)
}

// TestFind_None returns false in a directory without config files.
func TestFind_None(t *testing.T) {
	_, ok := Find(t.TempDir())
	assert.False(t, ok)
}

// TestFind_IgnoresDirectories skips a directory named like a config file.
func TestFind_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "appbuild.json"), 0o755))

	_, ok := Find(dir)
	assert.False(t, ok)
}

// --- Validate tests ---

// TestValidate reports one error per broken field.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(l *Layout)
		field  string
	}{
		{"empty source dir", func(l *Layout) { l.SourceDir = "" }, "sourceDir"},
		{"extension without dot", func(l *Layout) { l.SourceExt = "rs" }, "sourceExt"},
		{"bare dot extension", func(l *Layout) { l.SourceExt = "." }, "sourceExt"},
		{"absolute output", func(l *Layout) { l.OutputPath = "/tmp/app.asm" }, "outputPath"},
		{"triple with slash", func(l *Layout) { l.TargetTriple = "riscv64/none" }, "targetTriple"},
		{"section without dot", func(l *Layout) { l.Section = "data.app" }, "section"},
		{"bad table symbol", func(l *Layout) { l.TableSymbol = "app-list" }, "tableSymbol"},
		{"bad label prefix", func(l *Layout) { l.LabelPrefix = "9app" }, "labelPrefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Default()
			tt.modify(&l)

			errs := Validate(l)
			require.Len(t, errs, 1, "exactly one problem expected: %s", JoinErrors(errs))
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

// TestValidate_AbsoluteRootAllowed checks that only rootDir may be absolute.
func TestValidate_AbsoluteRootAllowed(t *testing.T) {
	l := Default()
	l.RootDir = "/src/os"
	assert.Empty(t, Validate(l))
}

// TestJoinErrors renders one line per problem.
func TestJoinErrors(t *testing.T) {
	msg := JoinErrors([]ValidationError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	})
	assert.Equal(t, "config validation error: a: bad\nconfig validation error: b: worse", msg)
}
