package routing

import "log"

// PiecewiseRouter routes a sequence of graph node indices (sampling points
// along an input line) through a SkipRouter one segment at a time,
// advancing past whatever it couldn't route according to the SkipRouter's
// skip strategy instead of failing the whole line.
type PiecewiseRouter struct {
	Skip *SkipRouter
}

// NewPiecewiseRouter wraps skip.
func NewPiecewiseRouter(skip *SkipRouter) *PiecewiseRouter {
	return &PiecewiseRouter{Skip: skip}
}

// Route walks samplingPoints pairwise, routing each consecutive pair
// through the wrapped SkipRouter. A segment that fails to route is logged
// and skipped according to the router's SkipStrategy rather than aborting
// the whole line.
func (p *PiecewiseRouter) Route(samplingPoints []int, stat *Statistic) []int {
	var full []int
	lastIdx := len(samplingPoints) - 1

	sourceSamplingPointIndex := 0
	for sourceSamplingPointIndex < lastIdx {
		targetSamplingPointIndex := sourceSamplingPointIndex + 1

		result, path := p.Skip.Route(samplingPoints[sourceSamplingPointIndex], samplingPoints[targetSamplingPointIndex], stat)
		if result == RouteFound {
			full = appendPath(full, path)
			sourceSamplingPointIndex = targetSamplingPointIndex
			continue
		}

		log.Printf("routing: segment %d->%d failed (%s), skipping", sourceSamplingPointIndex, targetSamplingPointIndex, result)
		stat.Skipped++
		sourceSamplingPointIndex = p.Skip.skipAdvance(sourceSamplingPointIndex, lastIdx)
	}

	return full
}

// appendPath appends path to full, dropping path's first node when it
// duplicates full's last node (every segment's source is the previous
// segment's target).
func appendPath(full, path []int) []int {
	if len(full) > 0 && len(path) > 0 && full[len(full)-1] == path[0] {
		path = path[1:]
	}
	return append(full, path...)
}
