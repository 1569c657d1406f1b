// Package model defines the domain types and value objects for the
// appbuild CLI.
//
// This package contains pure data structures with no external dependencies.
// CandidateUnit and OrderedEntry exist only for the duration of one
// invocation; the generated assembly file is fully regenerated each run.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
