package config

// DefaultConfig returns the default configuration: a four-worker pool, one
// "default" Postgres connection to a local "osm" database, and conservative
// routing/graph tolerances.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			Workers: 4,
		},
		Postgres: map[string]PostgresConfig{
			"default": {
				Host:     "localhost",
				Port:     5432,
				Database: "osm",
				User:     "osm",
				Strategy: "global-locked",
			},
		},
		Osm: OsmConfig{
			HighwaySelection: []string{
				"motorway", "trunk", "primary", "secondary", "tertiary",
				"unclassified", "residential", "service",
			},
			SourceTable: "planet_osm_line",
		},
		Routing: RoutingConfig{
			MaxBacktrackingDistance: 500,
			SkipStrategy:            "nearest",
		},
		Graph: GraphConfig{
			MaxNodeMergeDistance: 2.5,
		},
	}
}
