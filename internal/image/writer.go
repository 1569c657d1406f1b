// Package image persists the rendered assembly fragment.
//
// The output file is replaced atomically: bytes go to a temporary file in
// the same directory, which is renamed over the destination on Close.
// A reader (or the kernel build) never sees a half-written app.asm.
package image

import (
	"io"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
	"github.com/pkg/errors"
)

// FileMode is the permission of the generated file.
const FileMode os.FileMode = 0o644

// Write stores text at outputPath, creating parent directories as needed
// and replacing any previous content.
//
// The writer is acquired once and its Close is deferred, so the temporary
// file is released on every path. A failed write leaves the previous
// output untouched.
func Write(outputPath, text string) (retErr error) {
	// os.MkdirAll is a no-op if the directory already exists, and creates
	// all necessary parent directories (like `mkdir -p`).
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	w, err := atomicwriter.New(outputPath, FileMode)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s for writing", outputPath)
	}
	defer func() {
		if err := w.Close(); err != nil && retErr == nil {
			retErr = errors.Wrapf(err, "failed to finalize %s", outputPath)
		}
	}()

	if _, err := io.WriteString(w, text); err != nil {
		return errors.Wrapf(err, "failed to write %s", outputPath)
	}
	return nil
}

// Unchanged reports whether outputPath already holds exactly text.
// A missing or unreadable file counts as changed.
func Unchanged(outputPath, text string) bool {
	existing, err := os.ReadFile(outputPath)
	if err != nil {
		return false
	}
	return string(existing) == text
}
