package tasks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kmorwood/lintcage/internal/config"
	"github.com/kmorwood/lintcage/internal/graph"
	"github.com/kmorwood/lintcage/internal/registry"
	"github.com/kmorwood/lintcage/internal/sandbox"
)

// fakeInvoker records invocations and serves canned results per tool.
type fakeInvoker struct {
	ensured     []string
	invocations []invocation
	exitCodes   map[string]int // by tool name
	results     map[string]sandbox.Result
}

type invocation struct {
	tool    string
	image   string
	args    []string
	profile sandbox.Profile
}

func (f *fakeInvoker) EnsureAvailable(ctx context.Context, ref string) error {
	f.ensured = append(f.ensured, ref)
	return nil
}

func (f *fakeInvoker) Invoke(ctx context.Context, cmd sandbox.Command, profile sandbox.Profile, args []string) (sandbox.Result, error) {
	f.invocations = append(f.invocations, invocation{
		tool:    cmd.Tool,
		image:   cmd.Image,
		args:    args,
		profile: profile,
	})
	if res, ok := f.results[cmd.Tool]; ok {
		return res, nil
	}
	return sandbox.Result{ExitCode: f.exitCodes[cmd.Tool]}, nil
}

func testSetup(t *testing.T) (*config.Config, *registry.Registry, *fakeInvoker) {
	t.Helper()
	cfg := &config.Config{
		Root: t.TempDir(),
		Registry: config.RegistryConfig{
			Prefix: "docker.io/",
			Images: map[string]string{},
		},
		Container: config.ContainerConfig{
			User:        "auto",
			MemoryLimit: "2g",
		},
	}
	return cfg, registry.New(cfg), &fakeInvoker{
		exitCodes: map[string]int{},
		results:   map[string]sandbox.Result{},
	}
}

func TestBuildGraphValidates(t *testing.T) {
	cfg, reg, inv := testSetup(t)

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, name := range []string{"pull", "lint", "format", "all", "lint-docker", "lint-markdown", "lint-shell", "lint-yaml", "format-markdown", "format-shell"} {
		if !g.Has(name) {
			t.Errorf("graph missing task %q", name)
		}
	}
}

func TestRunAllPullsOnce(t *testing.T) {
	cfg, reg, inv := testSetup(t)

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := g.Run(context.Background(), "all"); err != nil {
		t.Fatalf("Run(all) error = %v", err)
	}

	// pull ensures all six images exactly once even though every tool task
	// depends on it.
	if len(inv.ensured) != 6 {
		t.Errorf("EnsureAvailable called %d times, want 6", len(inv.ensured))
	}
	if len(inv.invocations) != 6 {
		t.Errorf("Invoke called %d times, want 6", len(inv.invocations))
	}
}

func TestRunLintEmptyFileSetStillInvokes(t *testing.T) {
	cfg, reg, inv := testSetup(t)

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := g.Run(context.Background(), "lint-shell"); err != nil {
		t.Fatalf("Run(lint-shell) error = %v", err)
	}

	if len(inv.invocations) != 1 {
		t.Fatalf("Invoke called %d times, want 1", len(inv.invocations))
	}
	if len(inv.invocations[0].args) != 0 {
		t.Errorf("args = %v, want zero file arguments", inv.invocations[0].args)
	}
}

func TestRunLintPassesResolvedFiles(t *testing.T) {
	cfg, reg, inv := testSetup(t)
	for _, name := range []string{"b.md", "a.md"} {
		if err := os.WriteFile(filepath.Join(cfg.Root, name), []byte("# t\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := g.Run(context.Background(), "lint-markdown"); err != nil {
		t.Fatalf("Run(lint-markdown) error = %v", err)
	}

	got := inv.invocations[0].args
	want := []string{"a.md", "b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v (sorted)", got, want)
	}
}

func TestRunLintProfileIsReadOnly(t *testing.T) {
	cfg, reg, inv := testSetup(t)

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := g.Run(context.Background(), "lint-yaml"); err != nil {
		t.Fatalf("Run(lint-yaml) error = %v", err)
	}
	if inv.invocations[0].profile.WorkspaceWritable {
		t.Error("lint task ran with a writable workspace")
	}

	inv.invocations = nil
	if _, err := g.Run(context.Background(), "format-shell"); err != nil {
		t.Fatalf("Run(format-shell) error = %v", err)
	}
	if !inv.invocations[0].profile.WorkspaceWritable {
		t.Error("format task ran with a read-only workspace")
	}
}

func TestRunFailureAbortsAndCarriesExitCode(t *testing.T) {
	cfg, reg, inv := testSetup(t)
	inv.exitCodes["hadolint"] = 1

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	report, err := g.Run(context.Background(), "lint")
	var execErr *sandbox.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("Run(lint) error = %v, want *ExecError", err)
	}
	if execErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", execErr.ExitCode)
	}

	// lint-docker runs first in declared order; nothing after it may run.
	if report.Statuses["lint-docker"] != graph.StatusFailed {
		t.Errorf("status[lint-docker] = %s, want failed", report.Statuses["lint-docker"])
	}
	for _, later := range []string{"lint-markdown", "lint-shell", "lint-yaml"} {
		if status, ran := report.Statuses[later]; ran && status != graph.StatusPending {
			t.Errorf("%s reached status %s after a failure", later, status)
		}
	}
	if len(inv.invocations) != 1 {
		t.Errorf("Invoke called %d times after failure, want 1", len(inv.invocations))
	}
}

func TestToolOutputStreamedToWriter(t *testing.T) {
	cfg, reg, inv := testSetup(t)
	inv.results["shellcheck"] = sandbox.Result{Stdout: "ok\n"}

	var out bytes.Buffer
	g, err := Build(cfg, reg, inv, &out)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := g.Run(context.Background(), "lint-shell"); err != nil {
		t.Fatalf("Run(lint-shell) error = %v", err)
	}
	if out.String() != "ok\n" {
		t.Errorf("output = %q, want %q", out.String(), "ok\n")
	}
}

func TestRunMissingRootFailsWithInvalidRoot(t *testing.T) {
	cfg, reg, inv := testSetup(t)
	cfg.Root = filepath.Join(cfg.Root, "missing")

	g, err := Build(cfg, reg, inv, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	_, err = g.Run(context.Background(), "lint-markdown")
	if err == nil {
		t.Fatal("Run() expected error for missing root")
	}
	if len(inv.invocations) != 0 {
		t.Error("tool was invoked despite an invalid root")
	}
}
