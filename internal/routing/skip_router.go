package routing

// Configuration tunes a SkipRouter.
type Configuration struct {
	MaxBacktrackingDistance float64
	SkipStrategy            SkipStrategy
}

// SkipRouter wraps a BacktrackRouter, passing it a budget on how much
// backtracking to accept, and adds a policy for where to resume after a
// segment fails.
type SkipRouter struct {
	Router BacktrackRouter
	Config Configuration
}

// NewSkipRouter wraps router with config.
func NewSkipRouter(router BacktrackRouter, config Configuration) *SkipRouter {
	return &SkipRouter{Router: router, Config: config}
}

// Route attempts to connect sourceIdx to targetIdx, recording the outcome
// in stat. On success it returns the node index path; on failure, a nil
// path and the RouteResult explaining why.
func (s *SkipRouter) Route(sourceIdx, targetIdx int, stat *Statistic) (RouteResult, []int) {
	result, path := s.routeProcess(sourceIdx, targetIdx)
	switch result {
	case RouteFound:
		stat.Routed++
	case RouteBacktrackExceeded, RouteNoPath:
		stat.Failed++
	}
	return result, path
}

// routeProcess runs the wrapped router with the backtracking budget and
// returns its result, dropping the path when the result is not RouteFound.
// It applies no length check of its own.
func (s *SkipRouter) routeProcess(sourceIdx, targetIdx int) (RouteResult, []int) {
	result, path := s.Router.Route(sourceIdx, targetIdx, s.Config.MaxBacktrackingDistance)
	if result != RouteFound {
		return result, nil
	}
	return RouteFound, path
}

// skipAdvance decides the next sampling point index to try after a failed
// segment, given the index of the failed segment's source point and the
// index of the last sampling point.
// SkipNearest resumes right after the failed point; SkipFurthest jumps to
// the last point, abandoning everything in between.
func (s *SkipRouter) skipAdvance(failedIdx, lastIdx int) int {
	switch s.Config.SkipStrategy {
	case SkipFurthest:
		return lastIdx
	default: // SkipNearest
		return failedIdx + 1
	}
}
