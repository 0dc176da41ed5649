package main

import (
	"errors"
	"os"

	"github.com/kmorwood/lintcage/internal/cli"
	"github.com/kmorwood/lintcage/internal/sandbox"
)

func main() {
	if err := cli.Execute(); err != nil {
		// A failing tool's exit code becomes the process exit code so
		// the invocation composes in pipelines.
		var execErr *sandbox.ExecError
		if errors.As(err, &execErr) && execErr.ExitCode != 0 {
			os.Exit(execErr.ExitCode)
		}
		os.Exit(1)
	}
}
