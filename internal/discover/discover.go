// Package discover finds the user programs that go into the kernel image.
//
// A user program is one source file in the source directory, for example
// user/src/bin/init.rs. Its compiled binary is expected, without an
// extension, in the binary root (user/target/<triple>/release/init).
// Only the source directory is read; the binaries may not exist yet.
package discover

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/bluestar-os/appbuild/internal/config"
	"github.com/bluestar-os/appbuild/internal/ctxlog"
	"github.com/bluestar-os/appbuild/internal/model"
)

// Result is the outcome of a scan.
type Result struct {
	// Units lists the discovered programs in directory order.
	Units []model.CandidateUnit

	// Missing is true when the source directory does not exist. The scan
	// still succeeds with no units so a kernel-only build can proceed.
	Missing bool
}

// Scanner lists user programs in one source directory.
type Scanner struct {
	// SourceDir is the directory holding one source file per program.
	SourceDir string

	// SourceExt is the extension a source file must carry, dot included.
	SourceExt string

	// BinaryRoot is where the compiled binaries are expected.
	BinaryRoot string
}

// NewScanner creates a Scanner for the directories described by l.
func NewScanner(l config.Layout) *Scanner {
	return &Scanner{
		SourceDir:  l.SourceRoot(),
		SourceExt:  l.SourceExt,
		BinaryRoot: l.BinaryRoot(),
	}
}

// Scan reads SourceDir and returns one CandidateUnit per source file.
//
// Names beginning with "_" or "." are private and skipped. A missing
// SourceDir is not an error: it is logged and reported through
// Result.Missing. Any other read failure is returned.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	entries, err := os.ReadDir(s.SourceDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Source directory not found, continuing with no applications", "dir", s.SourceDir)
			return Result{Missing: true}, nil
		}
		return Result{}, errors.Wrapf(err, "failed to read source directory %s", s.SourceDir)
	}

	var units []model.CandidateUnit
	for _, entry := range entries {
		name, ok := s.unitName(entry.Name())
		if !ok {
			continue
		}

		isDir, err := s.isDir(entry)
		if err != nil {
			return Result{}, err
		}
		if isDir {
			logger.Debug("Skipping directory with source extension", "name", entry.Name())
			continue
		}

		units = append(units, model.CandidateUnit{
			Name:       name,
			BinaryPath: filepath.Join(s.BinaryRoot, name),
		})
		logger.Debug("Discovered application", "name", name)
	}

	return Result{Units: units}, nil
}

// unitName strips SourceExt from a file name and applies the private-name
// filter. It returns false for files that are not user programs.
func (s *Scanner) unitName(fileName string) (string, bool) {
	if !strings.HasSuffix(fileName, s.SourceExt) {
		return "", false
	}
	name := strings.TrimSuffix(fileName, s.SourceExt)
	if IsPrivate(name) {
		return "", false
	}
	return name, true
}

// isDir reports whether entry is a directory, following symbolic links so
// a linked source file still counts. A dangling link is treated as a file:
// discovery is by name only.
func (s *Scanner) isDir(entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	path := filepath.Join(s.SourceDir, entry.Name())
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to resolve %s", path)
	}
	return info.IsDir(), nil
}

// IsPrivate reports whether a unit name is excluded from the image.
// Empty names count as private.
func IsPrivate(name string) bool {
	return name == "" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// MissingBinaries returns the units whose compiled binary is not present.
// The assembler will fail on them later; callers only warn.
func MissingBinaries(units []model.CandidateUnit) []model.CandidateUnit {
	var missing []model.CandidateUnit
	for _, u := range units {
		if _, err := os.Stat(u.BinaryPath); err != nil {
			missing = append(missing, u)
		}
	}
	return missing
}
