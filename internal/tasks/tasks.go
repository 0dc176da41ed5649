// Package tasks declares the fixed task table and wires each task to its
// sandboxed tool invocation.
package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/kmorwood/lintcage/internal/config"
	"github.com/kmorwood/lintcage/internal/fileset"
	"github.com/kmorwood/lintcage/internal/graph"
	"github.com/kmorwood/lintcage/internal/registry"
	"github.com/kmorwood/lintcage/internal/sandbox"
)

// Invoker is the sandboxed execution surface the task table needs.
// *sandbox.Invoker satisfies it; tests substitute a fake.
type Invoker interface {
	EnsureAvailable(ctx context.Context, ref string) error
	Invoke(ctx context.Context, cmd sandbox.Command, profile sandbox.Profile, args []string) (sandbox.Result, error)
}

// toolTasks maps task names onto registry tools. The set is fixed; a new
// check means a new row here and a new registry entry.
var toolTasks = []struct {
	name string
	desc string
	tool registry.Tool
}{
	{name: "lint-docker", desc: "Lint Dockerfiles with hadolint", tool: registry.Hadolint},
	{name: "lint-markdown", desc: "Lint Markdown files with markdownlint-cli2", tool: registry.Markdownlint},
	{name: "lint-shell", desc: "Lint shell scripts with shellcheck", tool: registry.Shellcheck},
	{name: "lint-yaml", desc: "Lint YAML files with yamllint", tool: registry.Yamllint},
	{name: "format-markdown", desc: "Format Markdown files with prettier", tool: registry.Prettier},
	{name: "format-shell", desc: "Format shell scripts with shfmt", tool: registry.Shfmt},
}

// Build constructs the validated task graph. Tool output is streamed to out.
//
// Every tool task depends on pull, so images are ensured once per run no
// matter how many tasks share the step.
func Build(cfg *config.Config, reg *registry.Registry, inv Invoker, out io.Writer) (*graph.Graph, error) {
	defs := []graph.Task{
		{
			Name:        "pull",
			Description: "Ensure every tool image is available locally",
			Action:      pullAction(reg, inv),
		},
	}

	var lintDeps, formatDeps []string
	for _, tt := range toolTasks {
		spec, err := reg.Lookup(string(tt.tool))
		if err != nil {
			return nil, err
		}
		defs = append(defs, graph.Task{
			Name:        tt.name,
			Description: tt.desc,
			Deps:        []string{"pull"},
			Action:      toolAction(cfg, spec, inv, out),
		})
		if spec.Mutating {
			formatDeps = append(formatDeps, tt.name)
		} else {
			lintDeps = append(lintDeps, tt.name)
		}
	}

	defs = append(defs,
		graph.Task{
			Name:        "lint",
			Description: "Run every lint task",
			Deps:        lintDeps,
		},
		graph.Task{
			Name:        "format",
			Description: "Run every format task",
			Deps:        formatDeps,
		},
		graph.Task{
			Name:        "all",
			Description: "Run every lint and format task",
			Deps:        []string{"lint", "format"},
		},
	)

	return graph.New(defs)
}

func pullAction(reg *registry.Registry, inv Invoker) graph.Action {
	return func(ctx context.Context) error {
		for _, spec := range reg.Specs() {
			if err := inv.EnsureAvailable(ctx, spec.Ref); err != nil {
				return err
			}
		}
		return nil
	}
}

func toolAction(cfg *config.Config, spec registry.ToolSpec, inv Invoker, out io.Writer) graph.Action {
	return func(ctx context.Context) error {
		// Recomputed on every run, never cached.
		files, err := fileset.ResolveAll(cfg.Root, spec.Patterns)
		if err != nil {
			return err
		}

		profile := sandbox.LintProfile(cfg.Container.User, cfg.Container.MemoryLimit)
		if spec.Mutating {
			profile = sandbox.FormatProfile(cfg.Container.User, cfg.Container.MemoryLimit)
		}

		cmd := sandbox.Command{
			Tool:  string(spec.Name),
			Image: spec.Ref,
			Args:  spec.Args,
		}

		// An empty file set still invokes the tool with zero paths.
		res, err := inv.Invoke(ctx, cmd, profile, files)
		if err != nil {
			return err
		}

		fmt.Fprint(out, res.Combined())

		if res.ExitCode != 0 {
			return &sandbox.ExecError{
				Tool:     string(spec.Name),
				ExitCode: res.ExitCode,
				Output:   res.Combined(),
			}
		}
		return nil
	}
}
