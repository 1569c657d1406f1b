package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Role is the fixed runtime slot class of a user program.
// The boot loader expects the first user program at slot 0 and the
// idle/fallback program at slot 1, so those two names are pinned:
//
//	init  → slot 0
//	idle  → slot 1 (slot 0 when there is no init)
//	other → sorted by name after the fixed roles
type Role string

const (
	// RoleInit is the first user program started by the kernel.
	RoleInit Role = "init"

	// RoleIdle is the program scheduled when nothing else is runnable.
	RoleIdle Role = "idle"

	// RoleOther covers every program without a pinned slot.
	RoleOther Role = "other"
)

// String returns the string representation of Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the Role value is one of the predefined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleInit, RoleIdle, RoleOther:
		return true
	default:
		return false
	}
}

// IsFixed reports whether the role occupies a hard-coded slot.
func (r Role) IsFixed() bool {
	return r == RoleInit || r == RoleIdle
}

// ParseRole converts a string to a Role.
// Returns an error if the string does not match any valid role.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(s))
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %q (valid: init, idle, other)", s)
	}
	return role, nil
}

// RoleOf classifies a unit name. The match is exact and case-sensitive:
// "Init" is an ordinary program.
func RoleOf(name string) Role {
	switch name {
	case string(RoleInit):
		return RoleInit
	case string(RoleIdle):
		return RoleIdle
	default:
		return RoleOther
	}
}

// CandidateUnit is one discovered user program and the location where
// its compiled, extension-less binary is expected.
type CandidateUnit struct {
	// Name is the source file name without its extension (e.g., "init").
	Name string `json:"name" yaml:"name"`

	// BinaryPath is the expected path of the compiled binary.
	// The file may not exist yet; the assembler reports that, not us.
	BinaryPath string `json:"binaryPath" yaml:"binaryPath"`
}

// Role returns the fixed-slot classification of the unit.
func (u CandidateUnit) Role() Role {
	return RoleOf(u.Name)
}

// OrderedEntry is a CandidateUnit with its final place in the image.
type OrderedEntry struct {
	// Unit is the discovered program.
	Unit CandidateUnit `json:"unit" yaml:"unit"`

	// Role is the classification derived from Unit.Name.
	Role Role `json:"role" yaml:"role"`

	// Position is the 0-based runtime slot read by the boot loader.
	Position int `json:"position" yaml:"position"`

	// Label is Position+1 and only appears in emitted symbol names.
	Label int `json:"label" yaml:"label"`
}

// Validate checks the Position/Label relationship of a single entry.
func (e *OrderedEntry) Validate() error {
	if e.Unit.Name == "" {
		return fmt.Errorf("ordered entry: name must not be empty")
	}
	if e.Position < 0 {
		return fmt.Errorf("ordered entry %q: position %d must not be negative", e.Unit.Name, e.Position)
	}
	if e.Label != e.Position+1 {
		return fmt.Errorf("ordered entry %q: label %d must equal position+1 (%d)", e.Unit.Name, e.Label, e.Position+1)
	}
	return nil
}

// String returns a human-readable representation of the entry.
// Format: "[position] name"
func (e *OrderedEntry) String() string {
	return fmt.Sprintf("[%d] %s", e.Position, e.Unit.Name)
}

// ValidateEntries checks every entry individually and enforces that
// positions are exactly 0..n-1 in slice order.
func ValidateEntries(entries []OrderedEntry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
		if entries[i].Position != i {
			return fmt.Errorf("ordered entry %q: position %d out of sequence (want %d)",
				entries[i].Unit.Name, entries[i].Position, i)
		}
	}
	return nil
}

// symbolRegex matches identifiers the GNU assembler accepts as labels
// without quoting.
var symbolRegex = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.$]*$`)

// ValidateSymbol checks that name can be used as an assembler label.
func ValidateSymbol(name string) error {
	if name == "" {
		return fmt.Errorf("symbol name must not be empty")
	}
	if !symbolRegex.MatchString(name) {
		return fmt.Errorf("invalid symbol name %q: must start with a letter, '_' or '.', followed by letters, digits, '_', '.' or '$'", name)
	}
	return nil
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the run completed, including the
	// zero-application case.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unexpected failure.
	ExitGeneralError ExitCode = 1

	// ExitInterrupted indicates the operator cancelled the run.
	// It shares the status value of ExitGeneralError; the constant exists
	// so callers can tell the two causes apart.
	ExitInterrupted ExitCode = 1
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
