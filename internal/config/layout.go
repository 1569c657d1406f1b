package config

import (
	"path/filepath"
)

// Default values reproduce the directory layout of the kernel repository:
//
//	<root>/user/src/bin/<name>.rs                                   sources
//	<root>/user/target/riscv64gc-unknown-none-elf/release/<name>    binaries
//	<root>/kernel/src/app.asm                                       output
//
// The tool is normally invoked from <root>/kernel, hence RootDir "..".
const (
	DefaultRootDir      = ".."
	DefaultSourceDir    = "user/src/bin"
	DefaultSourceExt    = ".rs"
	DefaultTargetDir    = "user/target"
	DefaultTargetTriple = "riscv64gc-unknown-none-elf"
	DefaultProfile      = "release"
	DefaultOutputPath   = "kernel/src/app.asm"
	DefaultAnchorDir    = "kernel"
	DefaultSection      = ".data.app"
	DefaultTableSymbol  = "app_list"
	DefaultLabelPrefix  = "app"
)

// Layout describes where appbuild reads sources and binaries, where it
// writes the assembly file, and how the emitted symbols are named.
//
// All path fields except RootDir are relative to RootDir. RootDir itself
// is relative to the working directory unless it is absolute.
type Layout struct {
	// RootDir is the repository root.
	RootDir string `json:"rootDir,omitempty" yaml:"rootDir,omitempty" hcl:"root_dir,optional"`

	// SourceDir holds one source file per user program.
	SourceDir string `json:"sourceDir,omitempty" yaml:"sourceDir,omitempty" hcl:"source_dir,optional"`

	// SourceExt is the extension of a compiled-unit source file, dot included.
	SourceExt string `json:"sourceExt,omitempty" yaml:"sourceExt,omitempty" hcl:"source_ext,optional"`

	// TargetDir is the build system's output directory.
	TargetDir string `json:"targetDir,omitempty" yaml:"targetDir,omitempty" hcl:"target_dir,optional"`

	// TargetTriple is the platform identifier under TargetDir.
	TargetTriple string `json:"targetTriple,omitempty" yaml:"targetTriple,omitempty" hcl:"target_triple,optional"`

	// Profile is the build profile directory under the triple.
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty" hcl:"profile,optional"`

	// OutputPath is the generated assembly file.
	OutputPath string `json:"outputPath,omitempty" yaml:"outputPath,omitempty" hcl:"output_path,optional"`

	// AnchorDir is the directory the assembler resolves .incbin paths from.
	AnchorDir string `json:"anchorDir,omitempty" yaml:"anchorDir,omitempty" hcl:"anchor_dir,optional"`

	// Section is the data-segment section that receives the binaries.
	Section string `json:"section,omitempty" yaml:"section,omitempty" hcl:"section,optional"`

	// TableSymbol names the index table bounds: <TableSymbol>_start and
	// <TableSymbol>_end.
	TableSymbol string `json:"tableSymbol,omitempty" yaml:"tableSymbol,omitempty" hcl:"table_symbol,optional"`

	// LabelPrefix names per-program labels: <LabelPrefix>_<n>_start.
	LabelPrefix string `json:"labelPrefix,omitempty" yaml:"labelPrefix,omitempty" hcl:"label_prefix,optional"`
}

// Default returns the layout used when no configuration file is present.
func Default() Layout {
	return Layout{
		RootDir:      DefaultRootDir,
		SourceDir:    DefaultSourceDir,
		SourceExt:    DefaultSourceExt,
		TargetDir:    DefaultTargetDir,
		TargetTriple: DefaultTargetTriple,
		Profile:      DefaultProfile,
		OutputPath:   DefaultOutputPath,
		AnchorDir:    DefaultAnchorDir,
		Section:      DefaultSection,
		TableSymbol:  DefaultTableSymbol,
		LabelPrefix:  DefaultLabelPrefix,
	}
}

// Merge returns a copy of l where every non-empty field of o replaces the
// corresponding field of l.
func (l Layout) Merge(o Layout) Layout {
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&l.RootDir, o.RootDir)
	pick(&l.SourceDir, o.SourceDir)
	pick(&l.SourceExt, o.SourceExt)
	pick(&l.TargetDir, o.TargetDir)
	pick(&l.TargetTriple, o.TargetTriple)
	pick(&l.Profile, o.Profile)
	pick(&l.OutputPath, o.OutputPath)
	pick(&l.AnchorDir, o.AnchorDir)
	pick(&l.Section, o.Section)
	pick(&l.TableSymbol, o.TableSymbol)
	pick(&l.LabelPrefix, o.LabelPrefix)
	return l
}

// SourceRoot is the directory scanned for user programs.
func (l Layout) SourceRoot() string {
	return filepath.Join(l.RootDir, l.SourceDir)
}

// BinaryRoot is the directory holding the compiled user programs.
func (l Layout) BinaryRoot() string {
	return filepath.Join(l.RootDir, l.TargetDir, l.TargetTriple, l.Profile)
}

// Output is the path of the generated assembly file.
func (l Layout) Output() string {
	return filepath.Join(l.RootDir, l.OutputPath)
}

// Anchor is the directory .incbin paths are made relative to.
func (l Layout) Anchor() string {
	return filepath.Join(l.RootDir, l.AnchorDir)
}
