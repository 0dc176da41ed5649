package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph covers construction failures other than cycles:
	// empty or duplicate task names, references to unknown dependencies.
	ErrInvalidGraph = errors.New("invalid task graph")

	// ErrCycle indicates the declared dependencies form a cycle.
	ErrCycle = errors.New("cyclic dependency")

	// ErrUnknownTask indicates a run was requested for a task that is not
	// in the graph.
	ErrUnknownTask = errors.New("unknown task")
)

// GraphError wraps deterministic graph validation failures.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	msg := ""
	if len(path) > 0 {
		msg = strings.Join(path, " -> ")
	}
	return &GraphError{Kind: ErrCycle, Msg: msg}
}
