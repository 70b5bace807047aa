// Package osm converts raw OpenStreetMap tag values into the types the
// routing pipeline works with, and builds the SQL fragments that select a
// configured set of highway types out of a PostGIS import table.
package osm

import (
	"fmt"
	"sort"
	"strings"
)

// TravelDirection is what a way's oneway tag permits.
type TravelDirection int

const (
	// DirectionBoth means the way can be traveled in either direction.
	DirectionBoth TravelDirection = iota
	// DirectionForward means the way can only be traveled from its first
	// node to its last.
	DirectionForward
	// DirectionBackward means the way can only be traveled from its last
	// node to its first (oneway=-1).
	DirectionBackward
)

// ToTravelDirection maps an OSM oneway tag value to a TravelDirection.
// Unrecognized values (including the empty string) are treated as
// bidirectional, matching the common convention that a missing oneway tag
// means no restriction.
func ToTravelDirection(oneway string) TravelDirection {
	switch strings.ToLower(strings.TrimSpace(oneway)) {
	case "yes", "true", "1":
		return DirectionForward
	case "-1", "reverse":
		return DirectionBackward
	default:
		return DirectionBoth
	}
}

// HighwayType is a normalized OSM highway=* tag value.
type HighwayType string

const (
	HighwayMotorway     HighwayType = "motorway"
	HighwayTrunk        HighwayType = "trunk"
	HighwayPrimary      HighwayType = "primary"
	HighwaySecondary    HighwayType = "secondary"
	HighwayTertiary     HighwayType = "tertiary"
	HighwayUnclassified HighwayType = "unclassified"
	HighwayResidential  HighwayType = "residential"
	HighwayService      HighwayType = "service"
	HighwayUnknown      HighwayType = ""
)

var knownHighwayTypes = map[string]HighwayType{
	"motorway":     HighwayMotorway,
	"trunk":        HighwayTrunk,
	"primary":      HighwayPrimary,
	"secondary":    HighwaySecondary,
	"tertiary":     HighwayTertiary,
	"unclassified": HighwayUnclassified,
	"residential":  HighwayResidential,
	"service":      HighwayService,
}

// ToHighway maps a raw highway=* tag value to a HighwayType. Link variants
// (motorway_link, trunk_link, ...) fold into their parent type, since the
// router treats a link the same way as the road it connects to.
func ToHighway(highway string) HighwayType {
	highway = strings.ToLower(strings.TrimSpace(highway))
	highway = strings.TrimSuffix(highway, "_link")
	if ht, ok := knownHighwayTypes[highway]; ok {
		return ht
	}
	return HighwayUnknown
}

// ToOsmString is ToHighway's inverse: the canonical tag value for ht.
func ToOsmString(ht HighwayType) string {
	return string(ht)
}

// ToHighwaySelectionSql builds a SQL fragment selecting only rows whose
// highway column matches one of selection, against tableName. The returned
// fragment is meant to be embedded after a WHERE clause, e.g.:
//
//	"SELECT * FROM " + tableName + " WHERE " + ToHighwaySelectionSql(sel, tableName)
//
// Only values from the fixed, known highway vocabulary are written into the
// fragment; any other HighwayType in selection is left out, so the quoted
// values cannot open a SQL injection path. tableName is written as given.
func ToHighwaySelectionSql(selection map[HighwayType]struct{}, tableName string) string {
	values := make([]string, 0, len(selection))
	for ht := range selection {
		if _, known := knownHighwayTypes[string(ht)]; !known {
			continue
		}
		values = append(values, fmt.Sprintf("'%s'", ToOsmString(ht)))
	}
	if len(values) == 0 {
		return "FALSE"
	}
	sort.Strings(values)

	return fmt.Sprintf("%s.highway IN (%s)", tableName, strings.Join(values, ", "))
}
