package graph

// LineString is a sequence of points describing one imported road segment.
type LineString []Point

// Builder merges line string endpoints into shared graph nodes when they
// fall within MaxDistanceMeters of an already-known node, the way the
// source pipeline's GeometricGraphBuilder does with its R-tree lookup.
type Builder struct {
	MaxDistanceMeters float64

	graph *Graph
}

// NewBuilder constructs a Builder writing into a fresh Graph.
func NewBuilder(maxDistanceMeters float64) *Builder {
	return &Builder{MaxDistanceMeters: maxDistanceMeters, graph: New()}
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// Add folds one line string's endpoints into the graph, creating or
// reusing nodes for its front and back points and adding an edge between
// them carrying the line string's total length.
func (b *Builder) Add(ls LineString) {
	if len(ls) < 2 {
		return
	}

	front := b.getOrCreateNode(ls[0])
	back := b.getOrCreateNode(ls[len(ls)-1])
	b.graph.addEdge(front, back, lineStringLength(ls))
}

// getOrCreateNode returns the index of an existing node within
// MaxDistanceMeters of p, or creates a new one if none is close enough.
func (b *Builder) getOrCreateNode(p Point) int {
	if idx := b.graph.nearestNodeWithin(p, b.MaxDistanceMeters); idx >= 0 {
		return idx
	}
	return b.graph.addNode(p)
}

func lineStringLength(ls LineString) float64 {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += distanceMeters(ls[i-1], ls[i])
	}
	return total
}
