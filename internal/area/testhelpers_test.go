package area

import "github.com/paulmach/osm"

// node is a terse way to describe a way-node's coordinates in tests: id,
// lon, lat, matching the argument order callers read most naturally for
// OSM data (id first, then x/y in map order).
func node(id int64, lon, lat float64) osm.WayNode {
	return osm.WayNode{ID: osm.NodeID(id), Lon: lon, Lat: lat}
}

func way(id int64, tags map[string]string, nodes ...osm.WayNode) *osm.Way {
	w := &osm.Way{ID: osm.WayID(id), Nodes: osm.WayNodes(nodes)}
	for k, v := range tags {
		w.Tags = append(w.Tags, osm.Tag{Key: k, Value: v})
	}
	return w
}

func relation(id int64, tags map[string]string) *osm.Relation {
	r := &osm.Relation{ID: osm.RelationID(id)}
	for k, v := range tags {
		r.Tags = append(r.Tags, osm.Tag{Key: k, Value: v})
	}
	return r
}
