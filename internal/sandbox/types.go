package sandbox

import (
	"errors"
	"fmt"
)

var (
	// ErrImageUnavailable indicates the tool image is not present locally
	// and pull-on-demand is disabled. Run `lintcage pull` first.
	ErrImageUnavailable = errors.New("image unavailable")

	// ErrToolFailed indicates a sandboxed tool exited non-zero.
	ErrToolFailed = errors.New("tool execution failed")
)

// Command identifies what to run inside the sandbox.
type Command struct {
	Tool  string   // logical tool name, for error reporting
	Image string   // fully qualified image reference
	Args  []string // base arguments; caller-supplied args are appended
}

// Profile is the isolation posture applied to a sandboxed invocation.
//
// Network stays disabled for every profile; the only variance between lint
// and format tools is workspace mutability.
type Profile struct {
	WorkspaceWritable bool
	ReadOnlyRoot      bool
	DropCapabilities  bool
	NoNewPrivileges   bool
	User              string // auto, or uid:gid
	MemoryLimit       string // e.g., "2g"
}

// LintProfile is the default posture: read-only workspace, read-only rootfs,
// all capabilities dropped, no network.
func LintProfile(user, memoryLimit string) Profile {
	return Profile{
		WorkspaceWritable: false,
		ReadOnlyRoot:      true,
		DropCapabilities:  true,
		NoNewPrivileges:   true,
		User:              user,
		MemoryLimit:       memoryLimit,
	}
}

// FormatProfile relaxes workspace mutability for tools that rewrite files.
// Everything else stays locked down.
func FormatProfile(user, memoryLimit string) Profile {
	p := LintProfile(user, memoryLimit)
	p.WorkspaceWritable = true
	return p
}

// Result is the outcome of one sandboxed invocation. The exit code is the
// tool's own, returned verbatim with no interpretation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Combined returns stdout followed by stderr.
func (r Result) Combined() string {
	return r.Stdout + r.Stderr
}

// ExecError reports a tool that ran and exited non-zero. It carries the exit
// code so the process exit status can mirror the tool's.
type ExecError struct {
	Tool     string
	ExitCode int
	Output   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
}

func (e *ExecError) Unwrap() error { return ErrToolFailed }
