// Package routing implements piecewise, backtracking-aware route
// construction over the geometric graph built from imported OSM ways.
package routing

// Point is a single coordinate sample along a line the caller wants routed.
type Point struct {
	Lat, Lon float64
}

// RouteResult is the outcome of trying to route between two points.
type RouteResult int

const (
	// RouteFound means a path exists in the graph connecting the two
	// points within the configured backtracking budget.
	RouteFound RouteResult = iota
	// RouteBacktrackExceeded means every candidate path required more
	// backtracking than Configuration.MaxBacktrackingDistance allowed.
	RouteBacktrackExceeded
	// RouteNoPath means the graph has no connecting path at all.
	RouteNoPath
)

func (r RouteResult) String() string {
	switch r {
	case RouteFound:
		return "found"
	case RouteBacktrackExceeded:
		return "backtrack-exceeded"
	case RouteNoPath:
		return "no-path"
	default:
		return "unknown"
	}
}

// Statistic accumulates counters describing a routing run, the way the
// source pipeline's routingStatistic does: how many segments were found
// directly, how many needed a skip, and how many failed outright.
type Statistic struct {
	Routed  int
	Skipped int
	Failed  int
}

// Add folds other's counters into s.
func (s *Statistic) Add(other Statistic) {
	s.Routed += other.Routed
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// SkipStrategy decides which sampling point a piecewise route resumes from
// after a segment fails to route.
type SkipStrategy string

const (
	// SkipNearest resumes from the next sampling point after the one that
	// failed.
	SkipNearest SkipStrategy = "nearest"
	// SkipFurthest resumes from the last sampling point in the input,
	// abandoning everything in between.
	SkipFurthest SkipStrategy = "furthest"
)

// BacktrackRouter finds a route between two graph node indices, backing off
// and retrying within a distance budget when the direct path doesn't pan
// out. The concrete search algorithm (the source pipeline leaves this
// unspecified beyond the interface it's called through) is supplied by an
// implementation; DefaultBacktrackRouter gives a simple one.
type BacktrackRouter interface {
	Route(sourceIdx, targetIdx int, maxBacktrackingDistance float64) (RouteResult, []int)
}
