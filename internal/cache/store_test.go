package cache

import (
	"context"
	"testing"

	"github.com/aristath/geoflow/internal/graph"
	"github.com/aristath/geoflow/internal/routing"
)

// testStore creates an in-memory store for testing and registers cleanup.
func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewMemoryStore(context.Background())
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func buildTestGraph() *graph.Graph {
	b := graph.NewBuilder(1)
	b.Add(graph.LineString{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}})
	b.Add(graph.LineString{{Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}})
	b.Add(graph.LineString{{Lat: 0, Lon: 2}, {Lat: 1, Lon: 2}})
	return b.Graph()
}

func TestSaveAndLoadGraph(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	g := buildTestGraph()

	if err := store.SaveGraph(ctx, g); err != nil {
		t.Fatalf("failed to save graph: %v", err)
	}

	loaded, err := store.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("failed to load graph: %v", err)
	}

	if loaded.NodeCount() != g.NodeCount() {
		t.Fatalf("NodeCount = %d, want %d", loaded.NodeCount(), g.NodeCount())
	}
	for i := 0; i < g.NodeCount(); i++ {
		if loaded.Nodes[i].Point != g.Nodes[i].Point {
			t.Errorf("node %d = %+v, want %+v", i, loaded.Nodes[i].Point, g.Nodes[i].Point)
		}
	}
	if len(loaded.Edges) != len(g.Edges) {
		t.Fatalf("len(Edges) = %d, want %d", len(loaded.Edges), len(g.Edges))
	}
	for i, e := range g.Edges {
		got := loaded.Edges[i]
		if got.From != e.From || got.To != e.To || got.LengthMeters != e.LengthMeters {
			t.Errorf("edge %d = %+v, want %+v", i, got, e)
		}
	}

	// Neighbors should work the same on the reconstructed graph.
	for i := 0; i < g.NodeCount(); i++ {
		want := g.Neighbors(i)
		got := loaded.Neighbors(i)
		if len(got) != len(want) {
			t.Errorf("Neighbors(%d) length = %d, want %d", i, len(got), len(want))
		}
	}
}

func TestSaveGraphReplacesPrevious(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := buildTestGraph()
	if err := store.SaveGraph(ctx, first); err != nil {
		t.Fatalf("failed to save first graph: %v", err)
	}

	second := graph.New()
	second.AddNode(graph.Point{Lat: 5, Lon: 5})

	if err := store.SaveGraph(ctx, second); err != nil {
		t.Fatalf("failed to save second graph: %v", err)
	}

	loaded, err := store.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("failed to load graph: %v", err)
	}
	if loaded.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", loaded.NodeCount())
	}
	if len(loaded.Edges) != 0 {
		t.Fatalf("len(Edges) = %d, want 0", len(loaded.Edges))
	}
}

func TestLoadGraphEmpty(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	loaded, err := store.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("failed to load empty graph: %v", err)
	}
	if loaded.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", loaded.NodeCount())
	}
	if len(loaded.Edges) != 0 {
		t.Errorf("len(Edges) = %d, want 0", len(loaded.Edges))
	}
}

func TestSaveAndListRunStatistics(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	runs := []routing.Statistic{
		{Routed: 10, Skipped: 1, Failed: 0},
		{Routed: 8, Skipped: 0, Failed: 2},
	}
	for _, stat := range runs {
		if err := store.SaveRunStatistic(ctx, stat); err != nil {
			t.Fatalf("failed to save run statistic: %v", err)
		}
	}

	records, err := store.ListRunStatistics(ctx)
	if err != nil {
		t.Fatalf("failed to list run statistics: %v", err)
	}
	if len(records) != len(runs) {
		t.Fatalf("len(records) = %d, want %d", len(records), len(runs))
	}

	// Most recent first, so the last saved run should be first.
	if records[0].Stat != runs[1] {
		t.Errorf("records[0].Stat = %+v, want %+v", records[0].Stat, runs[1])
	}
	if records[1].Stat != runs[0] {
		t.Errorf("records[1].Stat = %+v, want %+v", records[1].Stat, runs[0])
	}
	for _, r := range records {
		if r.CreatedAt.IsZero() {
			t.Error("CreatedAt should be set")
		}
	}
}

func TestListRunStatisticsEmpty(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	records, err := store.ListRunStatistics(ctx)
	if err != nil {
		t.Fatalf("failed to list run statistics: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}
