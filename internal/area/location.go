// Package area assembles polygonal Area objects from OSM ways and
// multipolygon relations: segment normalization, ring construction,
// inner/outer classification, nesting and tag propagation.
package area

// Location is a fixed-point 2D coordinate, scaled degrees x 1e7, the same
// convention internal/middle uses for lat/lon storage. Two locations are
// equal iff both coordinates match exactly; ordering is lexicographic on
// (X, Y).
type Location struct {
	X int32
	Y int32
}

// Less reports whether l sorts before o: lexicographic on (X, Y).
func (l Location) Less(o Location) bool {
	if l.X != o.X {
		return l.X < o.X
	}
	return l.Y < o.Y
}

// LocationFromLonLat converts a WGS84 lon/lat pair (as carried by
// paulmach/osm way nodes) into the fixed-point representation used
// throughout the ring-assembly engine.
func LocationFromLonLat(lon, lat float64) Location {
	return Location{
		X: int32(lon * 1e7),
		Y: int32(lat * 1e7),
	}
}

// LonLat reverses LocationFromLonLat, for callers (WKB encoding, output
// builders) that need floating-point degrees back.
func (l Location) LonLat() (lon, lat float64) {
	return float64(l.X) / 1e7, float64(l.Y) / 1e7
}
