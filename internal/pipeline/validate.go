package pipeline

import (
	"fmt"
	"strings"

	"github.com/gammazero/toposort"
)

// Node describes one task's name and the names of the tasks it depends on.
// It exists purely for Validate: the pool itself performs no cycle
// detection (submitting a cyclic graph deadlocks it), so a caller
// assembling a run from configuration can check its shape first.
type Node struct {
	Name      string
	DependsOn []string
}

// Validate topologically sorts nodes and returns the order their
// dependencies require, or an error if nodes contains a cycle or a
// reference to an undeclared task name.
func Validate(nodes []Node) ([]string, error) {
	byName := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = n
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("pipeline: %q depends on undeclared task %q", n.Name, dep)
			}
		}
	}

	var edges []toposort.Edge
	for _, n := range nodes {
		if len(n.DependsOn) == 0 {
			edges = append(edges, toposort.Edge{nil, n.Name})
			continue
		}
		for _, dep := range n.DependsOn {
			edges = append(edges, toposort.Edge{dep, n.Name})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("pipeline: dependency graph contains a cycle: %w", err)
	}

	order := make([]string, 0, len(sorted))
	for _, v := range sorted {
		if v != nil {
			order = append(order, v.(string))
		}
	}

	if len(order) != len(nodes) {
		found := make(map[string]bool, len(order))
		for _, name := range order {
			found[name] = true
		}
		var missing []string
		for _, n := range nodes {
			if !found[n.Name] {
				missing = append(missing, n.Name)
			}
		}
		return nil, fmt.Errorf("pipeline: topological sort dropped %d task(s): %s", len(missing), strings.Join(missing, ", "))
	}

	return order, nil
}
