// validate.go checks a Layout before any filesystem work starts, so a bad
// configuration never produces a half-correct assembly file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bluestar-os/appbuild/internal/model"
)

// ValidationError represents a specific validation failure in a Layout.
type ValidationError struct {
	// Field is the configuration key that failed validation (e.g., "sourceExt").
	Field string

	// Message describes what's wrong with the field value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// Validate returns every problem found in l (empty list = valid).
//
// Checks performed:
//   - every field is set
//   - sourceExt starts with a dot
//   - paths below rootDir are relative
//   - targetTriple and profile are single path components
//   - section starts with a dot
//   - tableSymbol and labelPrefix are valid assembler labels
func Validate(l Layout) []ValidationError {
	var errs []ValidationError

	required := []struct {
		field string
		value string
	}{
		{"rootDir", l.RootDir},
		{"sourceDir", l.SourceDir},
		{"sourceExt", l.SourceExt},
		{"targetDir", l.TargetDir},
		{"targetTriple", l.TargetTriple},
		{"profile", l.Profile},
		{"outputPath", l.OutputPath},
		{"anchorDir", l.AnchorDir},
		{"section", l.Section},
		{"tableSymbol", l.TableSymbol},
		{"labelPrefix", l.LabelPrefix},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, ValidationError{Field: r.field, Message: "must not be empty"})
		}
	}

	if l.SourceExt != "" && (!strings.HasPrefix(l.SourceExt, ".") || len(l.SourceExt) < 2) {
		errs = append(errs, ValidationError{
			Field:   "sourceExt",
			Message: fmt.Sprintf("%q must be a dot followed by an extension (e.g., \".rs\")", l.SourceExt),
		})
	}

	relative := []struct {
		field string
		value string
	}{
		{"sourceDir", l.SourceDir},
		{"targetDir", l.TargetDir},
		{"outputPath", l.OutputPath},
		{"anchorDir", l.AnchorDir},
	}
	for _, r := range relative {
		if r.value != "" && filepath.IsAbs(r.value) {
			errs = append(errs, ValidationError{
				Field:   r.field,
				Message: "path should be relative to rootDir",
			})
		}
	}

	for _, c := range []struct {
		field string
		value string
	}{
		{"targetTriple", l.TargetTriple},
		{"profile", l.Profile},
	} {
		if strings.ContainsAny(c.value, `/\`) {
			errs = append(errs, ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("%q must be a single directory name", c.value),
			})
		}
	}

	if l.Section != "" && !strings.HasPrefix(l.Section, ".") {
		errs = append(errs, ValidationError{
			Field:   "section",
			Message: fmt.Sprintf("%q must start with a dot (e.g., \".data.app\")", l.Section),
		})
	}

	for _, s := range []struct {
		field string
		value string
	}{
		{"tableSymbol", l.TableSymbol},
		{"labelPrefix", l.LabelPrefix},
	} {
		if s.value == "" {
			continue
		}
		if err := model.ValidateSymbol(s.value); err != nil {
			errs = append(errs, ValidationError{Field: s.field, Message: err.Error()})
		}
	}

	return errs
}

// JoinErrors renders a validation list as one message, one problem per line.
func JoinErrors(errs []ValidationError) string {
	lines := make([]string, 0, len(errs))
	for i := range errs {
		lines = append(lines, errs[i].Error())
	}
	return strings.Join(lines, "\n")
}
