package config

// PoolConfig sizes the dependency-aware worker pool.
type PoolConfig struct {
	Workers int `json:"workers"` // number of worker goroutines; 0 means GOMAXPROCS
}

// PostgresConfig describes one named connection to the road-network
// database and the concurrency strategy used to share it.
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	// Strategy is one of "global-locked", "global-unlocked", "local" -- see
	// package postgres for what each one means.
	Strategy string `json:"strategy"`
}

// OsmConfig controls which OpenStreetMap highway tags are imported and
// which source table they're read from.
type OsmConfig struct {
	// HighwaySelection lists the highway=* values to import, e.g.
	// "motorway", "primary", "residential", "service".
	HighwaySelection []string `json:"highway_selection"`
	// SourceTable is the PostGIS table holding raw OSM ways.
	SourceTable string `json:"source_table"`
}

// RoutingConfig tunes the backtracking/skip router.
type RoutingConfig struct {
	// MaxBacktrackingDistance bounds how far, in meters, the router may
	// retreat along a partial route before giving up on it.
	MaxBacktrackingDistance float64 `json:"max_backtracking_distance"`
	// SkipStrategy is one of "nearest", "furthest" -- which sampling point
	// the router resumes from after a failed segment.
	SkipStrategy string `json:"skip_strategy"`
}

// GraphConfig controls how the geometric graph builder merges nearby line
// string endpoints into shared nodes.
type GraphConfig struct {
	// MaxNodeMergeDistance is, in meters, how close two endpoints must be
	// to be treated as the same graph node.
	MaxNodeMergeDistance float64 `json:"max_node_merge_distance"`
}

// Config is the top-level configuration: the worker pool plus every domain
// component that runs on top of it.
type Config struct {
	Pool     PoolConfig                `json:"pool"`
	Postgres map[string]PostgresConfig `json:"postgres"`
	Osm      OsmConfig                 `json:"osm"`
	Routing  RoutingConfig             `json:"routing"`
	Graph    GraphConfig               `json:"graph"`
}
