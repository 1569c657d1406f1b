// Package asm renders the ordered user programs as a GNU assembler
// fragment that the kernel links into its data segment.
//
// The fragment has three parts:
//
//	.section .data.app            header: section and exported table bounds
//	.global app_list_start
//	.global app_list_end
//	app_list_start:               index table: one start/end pair per program
//	    .quad app_1_start
//	    .quad app_1_end
//	app_list_end:
//
//	app_1_start:                  one block per program, same order
//	.incbin "../user/target/riscv64gc-unknown-none-elf/release/init"
//	app_1_end:
//
// The boot loader walks the table between app_list_start and app_list_end;
// with no programs those two labels are adjacent.
package asm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/bluestar-os/appbuild/internal/config"
	"github.com/bluestar-os/appbuild/internal/model"
)

// header is written at the top of every generated file. It contains no
// timestamp so identical inputs produce identical bytes.
const header = "# Generated by appbuild. DO NOT EDIT - this file is regenerated on every build.\n" +
	"# Embedded user applications, linked into the data segment.\n"

// Options controls symbol naming and include path resolution.
type Options struct {
	// Section is the data-segment section, e.g. ".data.app".
	Section string

	// TableSymbol is the prefix of the table bound labels.
	TableSymbol string

	// LabelPrefix is the prefix of the per-program labels.
	LabelPrefix string

	// Anchor is the directory .incbin paths are relative to.
	Anchor string
}

// OptionsFromLayout derives emitter options from a Layout.
func OptionsFromLayout(l config.Layout) Options {
	return Options{
		Section:     l.Section,
		TableSymbol: l.TableSymbol,
		LabelPrefix: l.LabelPrefix,
		Anchor:      l.Anchor(),
	}
}

// TableStart is the label marking the first slot of the index table.
func (o Options) TableStart() string { return o.TableSymbol + "_start" }

// TableEnd is the label just past the last slot of the index table.
func (o Options) TableEnd() string { return o.TableSymbol + "_end" }

// StartLabel is the label at the first byte of program number label.
func (o Options) StartLabel(label int) string {
	return fmt.Sprintf("%s_%d_start", o.LabelPrefix, label)
}

// EndLabel is the label just past the last byte of program number label.
func (o Options) EndLabel(label int) string {
	return fmt.Sprintf("%s_%d_end", o.LabelPrefix, label)
}

// Render produces the assembly text for entries, which must already be in
// slot order. Nothing is returned on error, so a failed render can never
// leave a partial file behind.
func Render(entries []model.OrderedEntry, opts Options) (string, error) {
	if err := model.ValidateEntries(entries); err != nil {
		return "", errors.Wrap(err, "refusing to render out-of-order entries")
	}

	// Resolve every include path first; any failure aborts before output.
	includes := make([]string, len(entries))
	for i, e := range entries {
		path, err := IncludePath(opts.Anchor, e.Unit.BinaryPath)
		if err != nil {
			return "", errors.Wrapf(err, "application %q", e.Unit.Name)
		}
		includes[i] = path
	}

	var b strings.Builder

	b.WriteString(header)
	fmt.Fprintf(&b, ".section %s\n", opts.Section)
	fmt.Fprintf(&b, ".global %s\n", opts.TableStart())
	fmt.Fprintf(&b, ".global %s\n", opts.TableEnd())

	// Index table: two quad-word slots per program, start then end.
	fmt.Fprintf(&b, "%s:\n", opts.TableStart())
	for _, e := range entries {
		fmt.Fprintf(&b, "    .quad %s\n", opts.StartLabel(e.Label))
		fmt.Fprintf(&b, "    .quad %s\n", opts.EndLabel(e.Label))
	}
	fmt.Fprintf(&b, "%s:\n", opts.TableEnd())

	if len(entries) == 0 {
		return b.String(), nil
	}

	b.WriteString("\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%s:\n", opts.StartLabel(e.Label))
		fmt.Fprintf(&b, ".incbin \"%s\"\n", includes[i])
		fmt.Fprintf(&b, "%s:\n", opts.EndLabel(e.Label))
	}

	return b.String(), nil
}

// IncludePath returns binaryPath relative to anchor with forward slashes,
// the form the assembler expects in an .incbin directive on every host.
//
// With the default layout, anchor "../kernel" and binary
// "../user/target/riscv64gc-unknown-none-elf/release/init" give
// "../user/target/riscv64gc-unknown-none-elf/release/init".
func IncludePath(anchor, binaryPath string) (string, error) {
	// filepath.Rel cannot climb out of a relative base, so both paths are
	// made absolute against the working directory first.
	absAnchor, err := filepath.Abs(anchor)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve anchor %s", anchor)
	}
	absBinary, err := filepath.Abs(binaryPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve binary path %s", binaryPath)
	}

	rel, err := filepath.Rel(absAnchor, absBinary)
	if err != nil {
		return "", errors.Wrapf(err, "cannot express %s relative to %s", binaryPath, anchor)
	}

	rel = filepath.ToSlash(rel)
	if strings.ContainsAny(rel, "\"\n\r") {
		return "", fmt.Errorf("include path %q contains characters that cannot appear in an .incbin string", rel)
	}
	return rel, nil
}

// SlotCount returns the number of quad-word slots in the index table of a
// rendered fragment, or -1 when the table bounds are missing. The build
// command uses it to check the 2-slots-per-program invariant before writing.
func SlotCount(text string, opts Options) int {
	start := opts.TableStart() + ":\n"
	end := opts.TableEnd() + ":\n"

	i := strings.Index(text, start)
	j := strings.Index(text, end)
	if i < 0 || j < i {
		return -1
	}
	return strings.Count(text[i+len(start):j], ".quad ")
}
