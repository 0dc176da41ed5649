// Package registry holds the static table of supported sandboxed tools.
//
// The table is a closed enumeration: adding or upgrading a tool is an
// explicit edit here, never a runtime decision. Image references are pinned
// to specific tags and composed with the configured registry prefix when the
// registry is built at startup.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kmorwood/lintcage/internal/config"
)

// ErrUnknownTool indicates a lookup for a tool that is not in the table.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is the logical name of a supported sandboxed tool.
type Tool string

const (
	Hadolint     Tool = "hadolint"
	Markdownlint Tool = "markdownlint"
	Shellcheck   Tool = "shellcheck"
	Yamllint     Tool = "yamllint"
	Prettier     Tool = "prettier"
	Shfmt        Tool = "shfmt"
)

// ToolSpec is the static description of one sandboxed tool.
type ToolSpec struct {
	Name     Tool
	Ref      string   // fully qualified image reference, resolved at startup
	Args     []string // base invocation arguments, target paths are appended
	Patterns []string // doublestar globs selecting the tool's target files
	Mutating bool     // true for formatters that rewrite the workspace
}

// Image references without the registry prefix. Tags are pinned; upgrading a
// tool is an edit to this table.
var table = map[Tool]struct {
	image    string
	tag      string
	args     []string
	patterns []string
	mutating bool
}{
	Hadolint:     {image: "hadolint/hadolint", tag: "2.12.0", args: []string{"hadolint"}, patterns: []string{"**/Dockerfile"}},
	Markdownlint: {image: "davidanson/markdownlint-cli2", tag: "v0.14.0", args: nil, patterns: []string{"**/*.md"}},
	Shellcheck:   {image: "koalaman/shellcheck", tag: "v0.10.0", args: nil, patterns: []string{"**/*.sh"}},
	Yamllint:     {image: "cytopia/yamllint", tag: "1.33", args: nil, patterns: []string{"**/*.yaml", "**/*.yml"}},
	Prettier:     {image: "tmknom/prettier", tag: "3.2.5", args: []string{"--write"}, patterns: []string{"**/*.md"}, mutating: true},
	Shfmt:        {image: "mvdan/shfmt", tag: "v3.8.0-alpine", args: []string{"shfmt", "-w"}, patterns: []string{"**/*.sh"}, mutating: true},
}

// Registry is the immutable set of tool specs with image references resolved
// against the configuration. Fully populated at startup; no dynamic
// registration.
type Registry struct {
	specs map[Tool]ToolSpec
}

// New builds the registry from the static table, applying the configured
// registry prefix and any per-tool image reference overrides.
func New(cfg *config.Config) *Registry {
	specs := make(map[Tool]ToolSpec, len(table))
	for name, entry := range table {
		ref := cfg.Registry.Prefix + entry.image + ":" + entry.tag
		if override, ok := cfg.Registry.Images[string(name)]; ok && override != "" {
			ref = override
		}
		specs[name] = ToolSpec{
			Name:     name,
			Ref:      ref,
			Args:     entry.args,
			Patterns: entry.patterns,
			Mutating: entry.mutating,
		}
	}
	return &Registry{specs: specs}
}

// Lookup returns the spec for the named tool.
func (r *Registry) Lookup(name string) (ToolSpec, error) {
	spec, ok := r.specs[Tool(name)]
	if !ok {
		return ToolSpec{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return spec, nil
}

// Specs returns every spec sorted by tool name.
func (r *Registry) Specs() []ToolSpec {
	out := make([]ToolSpec, 0, len(r.specs))
	for _, spec := range r.specs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
