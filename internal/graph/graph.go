// Package graph defines the static task graph and its sequential executor.
//
// Tasks are declared once at startup and validated on construction: duplicate
// names, dangling dependency references, self-loops and cycles are all
// rejected before anything runs. Execution is a depth-first walk over the
// declared dependency order, each task visited at most once per run, aborting
// on the first failure.
package graph

import (
	"context"
	"fmt"
	"sort"
)

// Action is the work a task performs. A nil Action marks a pure aggregator.
type Action func(ctx context.Context) error

// Task is a named unit of work with an ordered dependency list and an
// optional action.
type Task struct {
	Name        string
	Description string
	Deps        []string
	Action      Action
}

// Status is the per-run state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Graph is an immutable, validated task graph.
type Graph struct {
	tasks map[string]Task
}

// New builds and validates a Graph.
//
// Validation rejects empty or duplicate task names, dependencies on unknown
// tasks, self-loops, and any cycle. A graph that constructs successfully
// cannot recurse unboundedly at run time.
func New(tasks []Task) (*Graph, error) {
	if len(tasks) == 0 {
		return nil, invalidf("no tasks")
	}

	byName := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		if t.Name == "" {
			return nil, invalidf("task name is required")
		}
		if _, exists := byName[t.Name]; exists {
			return nil, invalidf("duplicate task name: %q", t.Name)
		}
		byName[t.Name] = t
	}

	for _, t := range tasks {
		for _, dep := range t.Deps {
			if dep == t.Name {
				return nil, invalidf("self-loop: %q depends on itself", t.Name)
			}
			if _, ok := byName[dep]; !ok {
				return nil, invalidf("task %q depends on unknown task %q", t.Name, dep)
			}
		}
	}

	g := &Graph{tasks: byName}
	if err := g.validateAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// Tasks returns every task sorted by name, for help listings.
func (g *Graph) Tasks() []Task {
	out := make([]Task, 0, len(g.tasks))
	for _, t := range g.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Has reports whether the named task exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.tasks[name]
	return ok
}

// RunReport records the per-task outcome of one run. Tasks never reached are
// absent from Statuses.
type RunReport struct {
	Statuses map[string]Status
}

// Run executes the named task after its dependencies, depth-first in declared
// order. A run-scoped visited set guarantees each task executes at most once
// even when reachable through multiple paths. The first task whose action
// fails aborts the entire walk; the action's error propagates verbatim.
func (g *Graph) Run(ctx context.Context, name string) (*RunReport, error) {
	if _, ok := g.tasks[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}

	report := &RunReport{Statuses: make(map[string]Status)}
	err := g.runTask(ctx, name, report)
	return report, err
}

func (g *Graph) runTask(ctx context.Context, name string, report *RunReport) error {
	if _, visited := report.Statuses[name]; visited {
		return nil
	}
	report.Statuses[name] = StatusPending

	task := g.tasks[name]
	for _, dep := range task.Deps {
		if err := g.runTask(ctx, dep, report); err != nil {
			return err
		}
	}

	if task.Action == nil {
		// Aggregator: dependencies are the work.
		report.Statuses[name] = StatusSucceeded
		return nil
	}

	if err := ctx.Err(); err != nil {
		report.Statuses[name] = StatusFailed
		return err
	}

	report.Statuses[name] = StatusRunning
	if err := task.Action(ctx); err != nil {
		report.Statuses[name] = StatusFailed
		return err
	}
	report.Statuses[name] = StatusSucceeded
	return nil
}

// validateAcyclic proves the graph has no cycles using Kahn's algorithm.
//
// If a cycle exists, a deterministic DFS extracts one cycle path for the
// error message.
func (g *Graph) validateAcyclic() error {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	// indegree counts dependencies; an edge dep -> task means task waits
	// for dep.
	indeg := make(map[string]int, len(names))
	dependents := make(map[string][]string, len(names))
	for _, name := range names {
		indeg[name] = len(g.tasks[name].Deps)
		for _, dep := range g.tasks[name].Deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for _, name := range names {
		if indeg[name] == 0 {
			ready = append(ready, name)
		}
	}

	processed := 0
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		processed++
		for _, dependent := range dependents[name] {
			indeg[dependent]--
			if indeg[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if processed == len(names) {
		return nil
	}
	return cycleError(g.findCycle(names))
}

// findCycle performs a deterministic DFS over sorted names to extract one
// cycle path as a stable witness.
func (g *Graph) findCycle(names []string) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(names))
	parent := make(map[string]string, len(names))

	var cycle []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		color[name] = gray
		for _, dep := range g.tasks[name].Deps {
			switch color[dep] {
			case white:
				parent[dep] = name
				if dfs(dep) {
					return true
				}
			case gray:
				// Back-edge name -> dep closes the cycle.
				cycle = append(cycle, dep)
				for cur := name; cur != dep; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, dep)
				return true
			}
		}
		color[name] = black
		return false
	}

	for _, name := range names {
		if color[name] == white && dfs(name) {
			break
		}
	}

	// Reverse so the path reads in dependency order.
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}
