package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kmorwood/lintcage/internal/registry"
	"github.com/kmorwood/lintcage/internal/sandbox"
	"github.com/kmorwood/lintcage/internal/tasks"
	"github.com/spf13/cobra"
)

func runTask(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		printTaskListing(os.Stdout)
		return nil
	}
	name := args[0]

	if !tasks.Exists(name) {
		printTaskListing(os.Stderr)
		return fmt.Errorf("unknown task %q", name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown; an interrupt stops the running
	// container and aborts the rest of the graph.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	inv, err := sandbox.NewInvoker(cfg)
	if err != nil {
		return fmt.Errorf("failed to create sandbox invoker: %w", err)
	}
	defer inv.Close()

	reg := registry.New(cfg)
	g, err := tasks.Build(cfg, reg, inv, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to build task graph: %w", err)
	}

	_, err = g.Run(ctx, name)
	return err
}

// printTaskListing writes the self-documenting help: every task with its
// one-line description, sorted alphabetically.
func printTaskListing(w io.Writer) {
	fmt.Fprintln(w, "Tasks:")
	for _, info := range tasks.Catalog() {
		fmt.Fprintf(w, "  %-16s %s\n", info.Name, info.Description)
	}
	fmt.Fprintln(w, "\nRun a task with: lintcage <task>")
}
