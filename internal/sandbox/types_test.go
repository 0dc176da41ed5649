package sandbox

import (
	"errors"
	"testing"
)

func TestLintProfileDefaults(t *testing.T) {
	p := LintProfile("auto", "2g")

	if p.WorkspaceWritable {
		t.Error("lint profile must mount the workspace read-only")
	}
	if !p.ReadOnlyRoot {
		t.Error("lint profile must use a read-only rootfs")
	}
	if !p.DropCapabilities {
		t.Error("lint profile must drop all capabilities")
	}
	if !p.NoNewPrivileges {
		t.Error("lint profile must set no-new-privileges")
	}
}

func TestFormatProfileOnlyRelaxesWorkspace(t *testing.T) {
	lint := LintProfile("auto", "2g")
	format := FormatProfile("auto", "2g")

	if !format.WorkspaceWritable {
		t.Error("format profile must mount the workspace read-write")
	}

	format.WorkspaceWritable = lint.WorkspaceWritable
	if format != lint {
		t.Errorf("format profile differs beyond workspace mutability: %+v vs %+v", format, lint)
	}
}

func TestExecErrorWrapsToolFailed(t *testing.T) {
	err := &ExecError{Tool: "shellcheck", ExitCode: 2, Output: "SC1000"}

	if !errors.Is(err, ErrToolFailed) {
		t.Error("ExecError must wrap ErrToolFailed")
	}
	if err.Error() != "shellcheck exited with code 2" {
		t.Errorf("Error() = %q", err.Error())
	}

	var execErr *ExecError
	if !errors.As(error(err), &execErr) {
		t.Fatal("errors.As failed for *ExecError")
	}
	if execErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", execErr.ExitCode)
	}
}

func TestResultCombined(t *testing.T) {
	r := Result{Stdout: "out\n", Stderr: "err\n"}
	if r.Combined() != "out\nerr\n" {
		t.Errorf("Combined() = %q", r.Combined())
	}
}
