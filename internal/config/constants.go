package config

// User settings
const (
	UserAuto = "auto"
)

// Network modes. Every sandboxed invocation runs with network disabled;
// the constant exists so the restriction is spelled once.
const (
	NetworkNone = "none"
)

// Workspace mount point inside every sandbox
const (
	WorkspaceTarget = "/workspace"
)
