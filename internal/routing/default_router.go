package routing

import (
	"github.com/aristath/geoflow/internal/graph"
)

// DefaultBacktrackRouter is a breadth-first BacktrackRouter over a
// graph.Graph. BFS always finds the shortest path in edge count if one
// exists. maxBacktrackingDistance is accepted to satisfy BacktrackRouter
// but is not used: a found path is returned whatever its length, and this
// router never returns RouteBacktrackExceeded.
type DefaultBacktrackRouter struct {
	Graph *graph.Graph
}

// NewDefaultBacktrackRouter wraps g.
func NewDefaultBacktrackRouter(g *graph.Graph) *DefaultBacktrackRouter {
	return &DefaultBacktrackRouter{Graph: g}
}

// Route implements BacktrackRouter.
func (r *DefaultBacktrackRouter) Route(sourceIdx, targetIdx int, maxBacktrackingDistance float64) (RouteResult, []int) {
	if sourceIdx == targetIdx {
		return RouteFound, []int{sourceIdx}
	}

	prev := make(map[int]int)
	visited := map[int]bool{sourceIdx: true}
	queue := []int{sourceIdx}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range r.Graph.Neighbors(cur) {
			if visited[next] {
				continue
			}
			visited[next] = true
			prev[next] = cur
			if next == targetIdx {
				return RouteFound, reconstructPath(prev, sourceIdx, targetIdx)
			}
			queue = append(queue, next)
		}
	}

	return RouteNoPath, nil
}

func reconstructPath(prev map[int]int, source, target int) []int {
	path := []int{target}
	for path[len(path)-1] != source {
		path = append(path, prev[path[len(path)-1]])
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
