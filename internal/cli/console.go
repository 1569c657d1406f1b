package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/moby/term"
)

const (
	// glyphOK marks a completed step on terminals that can render it.
	glyphOK = "✓"

	// asciiOK replaces glyphOK when Unicode output is unavailable.
	asciiOK = "[OK]"

	// ruleWidth is the width of the summary separator line.
	ruleWidth = 60
)

// Console prints progress and confirmation lines for the operator.
// It only chooses how a confirmation is rendered; the set of lines printed
// is the same either way.
type Console struct {
	w  io.Writer
	ok string
}

// NewConsole creates a Console on w. Plain-text markers are used when
// ascii is set or when w cannot be trusted to render Unicode glyphs.
func NewConsole(w io.Writer, ascii bool) *Console {
	ok := glyphOK
	if ascii || !supportsGlyphs(w) {
		ok = asciiOK
	}
	return &Console{w: w, ok: ok}
}

// supportsGlyphs reports whether w can display the confirmation glyph.
// Legacy Windows consoles use an OEM code page and show "✓" as garbage;
// redirected output and every other platform receive UTF-8.
func supportsGlyphs(w io.Writer) bool {
	if runtime.GOOS != "windows" {
		return true
	}
	_, isTerminal := term.GetFdInfo(w)
	return !isTerminal
}

// Printf writes formatted text as is.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// Println writes a line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.w, args...)
}

// OK writes a confirmation line prefixed with the check marker.
func (c *Console) OK(format string, args ...any) {
	fmt.Fprintf(c.w, "%s %s\n", c.ok, fmt.Sprintf(format, args...))
}

// Rule writes a separator line.
func (c *Console) Rule() {
	fmt.Fprintln(c.w, strings.Repeat("=", ruleWidth))
}
