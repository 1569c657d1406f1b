package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRole_String verifies that Role values produce the expected string
// representations for CLI output and JSON/YAML serialization.
func TestRole_String(t *testing.T) {
	tests := []struct {
		role     Role
		expected string
	}{
		{RoleInit, "init"},
		{RoleIdle, "idle"},
		{RoleOther, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.String())
		})
	}
}

// TestRole_IsValid checks that only defined roles pass validation.
func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleInit.IsValid())
	assert.True(t, RoleIdle.IsValid())
	assert.True(t, RoleOther.IsValid())
	assert.False(t, Role("shell").IsValid())
	assert.False(t, Role("").IsValid())
}

// TestRole_IsFixed verifies that only init and idle have pinned slots.
func TestRole_IsFixed(t *testing.T) {
	assert.True(t, RoleInit.IsFixed())
	assert.True(t, RoleIdle.IsFixed())
	assert.False(t, RoleOther.IsFixed())
}

// TestParseRole verifies string-to-role conversion,
// including case normalization and error cases.
func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		hasError bool
	}{
		{"init", RoleInit, false},
		{"idle", RoleIdle, false},
		{"other", RoleOther, false},
		{"IDLE", RoleIdle, false}, // case insensitive
		{"shell", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseRole(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestRoleOf checks that classification is an exact, case-sensitive match.
func TestRoleOf(t *testing.T) {
	tests := []struct {
		name     string
		expected Role
	}{
		{"init", RoleInit},
		{"idle", RoleIdle},
		{"Init", RoleOther},
		{"initrd", RoleOther},
		{"idle2", RoleOther},
		{"hello_world", RoleOther},
		{"", RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoleOf(tt.name))
			assert.Equal(t, tt.expected, CandidateUnit{Name: tt.name}.Role())
		})
	}
}

// TestOrderedEntry_Validate checks the label = position+1 invariant.
func TestOrderedEntry_Validate(t *testing.T) {
	tests := []struct {
		name     string
		entry    OrderedEntry
		hasError bool
	}{
		{"first slot", OrderedEntry{Unit: CandidateUnit{Name: "init"}, Position: 0, Label: 1}, false},
		{"later slot", OrderedEntry{Unit: CandidateUnit{Name: "zeta"}, Position: 3, Label: 4}, false},
		{"label equals position", OrderedEntry{Unit: CandidateUnit{Name: "a"}, Position: 2, Label: 2}, true},
		{"negative position", OrderedEntry{Unit: CandidateUnit{Name: "a"}, Position: -1, Label: 0}, true},
		{"empty name", OrderedEntry{Position: 0, Label: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestOrderedEntry_String verifies the progress-report format.
func TestOrderedEntry_String(t *testing.T) {
	e := OrderedEntry{Unit: CandidateUnit{Name: "idle"}, Position: 1, Label: 2}
	assert.Equal(t, "[1] idle", e.String())
}

// TestValidateEntries checks that positions must be exactly 0..n-1.
func TestValidateEntries(t *testing.T) {
	ok := []OrderedEntry{
		{Unit: CandidateUnit{Name: "init"}, Role: RoleInit, Position: 0, Label: 1},
		{Unit: CandidateUnit{Name: "alpha"}, Role: RoleOther, Position: 1, Label: 2},
	}
	assert.NoError(t, ValidateEntries(ok))
	assert.NoError(t, ValidateEntries(nil))

	gap := []OrderedEntry{
		{Unit: CandidateUnit{Name: "init"}, Role: RoleInit, Position: 0, Label: 1},
		{Unit: CandidateUnit{Name: "alpha"}, Role: RoleOther, Position: 2, Label: 3},
	}
	err := ValidateEntries(gap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of sequence")
}

// TestValidateSymbol checks assembler label validation.
func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		name     string
		hasError bool
	}{
		{"app_list", false},
		{"_start", false},
		{".Lapp", false},
		{"app$1", false},
		{"", true},
		{"1app", true},
		{"app-list", true},
		{"app list", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSymbol(tt.name)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestCLIError_Error checks the error message format with and without
// a wrapped error.
func TestCLIError_Error(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := NewCLIError(ExitGeneralError, "render failed")
		assert.Equal(t, "render failed", err.Error())
		assert.Equal(t, ExitGeneralError, err.Code)
	})

	t.Run("with wrapped error", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitGeneralError, "write failed", inner)
		assert.Equal(t, "write failed: permission denied", err.Error())
	})
}

// TestCLIError_Unwrap verifies errors.Is works through CLIError.
func TestCLIError_Unwrap(t *testing.T) {
	inner := errors.New("underlying")
	err := WrapCLIError(ExitInterrupted, "aborted", inner)

	assert.True(t, errors.Is(err, inner))

	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitInterrupted, cliErr.Code)
}

// TestExitCodes pins the process status values.
func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, int(ExitSuccess))
	assert.Equal(t, 1, int(ExitGeneralError))
	assert.Equal(t, 1, int(ExitInterrupted))
}
