package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kmorwood/lintcage/internal/registry"
	"github.com/kmorwood/lintcage/internal/sandbox"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pullCmd)
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull every tool image that is not present locally",
	Long: `Pull every tool image that is not present locally.

This is the explicit install step. Task runs never pull images themselves
unless pull-on-demand is enabled; invoking a task whose image is missing
fails instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

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

		for _, spec := range registry.New(cfg).Specs() {
			if err := inv.EnsureAvailable(ctx, spec.Ref); err != nil {
				return err
			}
			fmt.Printf("%-16s %s\n", spec.Name, spec.Ref)
		}
		return nil
	},
}
