package sandbox

import (
	"os"

	"github.com/acarl005/stripansi"
	"github.com/moby/term"
)

// stdoutIsTerminal is swapped out in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

// scrub strips ANSI escape sequences from tool output when stdout is not a
// terminal, so logs captured in pipelines stay clean. Interactive runs keep
// the tool's own coloring.
func scrub(s string) string {
	if stdoutIsTerminal() {
		return s
	}
	return stripansi.Strip(s)
}
