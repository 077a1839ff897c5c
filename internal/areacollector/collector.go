// Package areacollector resolves the raw middle-table rows a relation or
// way references into the paulmach/osm objects internal/area's Assembler
// operates on: node coordinates come from the mmap node index, way rows
// and tags from the middle store.
package areacollector

import (
	"context"
	"fmt"

	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2pgsql-go/internal/area"
	"github.com/wegman-software/osm2pgsql-go/internal/middle"
	"github.com/wegman-software/osm2pgsql-go/internal/nodeindex"
)

// Collector resolves relation members and way node lists into the concrete
// osm.Way/osm.Relation shapes an Assembler consumes.
type Collector struct {
	store *middle.MiddleStore
	nodes *nodeindex.MmapIndex
}

// New builds a Collector backed by store for way/tag lookups and nodes for
// coordinate lookups.
func New(store *middle.MiddleStore, nodes *nodeindex.MmapIndex) *Collector {
	return &Collector{store: store, nodes: nodes}
}

// Way resolves a middle.RawWay into an osm.Way with each node's coordinates
// filled in from the node index.
func (c *Collector) Way(raw *middle.RawWay) (*osm.Way, error) {
	way := &osm.Way{
		ID:    osm.WayID(raw.ID),
		Tags:  tagsFromMap(raw.Tags),
		Nodes: make(osm.WayNodes, len(raw.Nodes)),
	}
	for i, nodeID := range raw.Nodes {
		lat, lon, ok := c.nodes.Get(nodeID)
		if !ok {
			return nil, fmt.Errorf("node %d referenced by way %d has no known location", nodeID, raw.ID)
		}
		way.Nodes[i] = osm.WayNode{ID: osm.NodeID(nodeID), Lat: lat, Lon: lon}
	}
	return way, nil
}

// Relation resolves a middle.RawRelation's way members into
// area.MemberWay values ready for Assembler.AssembleRelation. Node and
// relation members are skipped (multipolygon relations only reference
// ways per spec); a way member whose row or node locations can't be
// found is reported as an error alongside the ones that succeeded.
func (c *Collector) Relation(ctx context.Context, raw *middle.RawRelation) ([]area.MemberWay, []error) {
	var members []area.MemberWay
	var errs []error

	for _, m := range raw.Members {
		if m.Type != "w" {
			continue
		}
		rawWay, err := c.store.GetWay(ctx, m.Ref)
		if err != nil {
			errs = append(errs, fmt.Errorf("loading way %d: %w", m.Ref, err))
			continue
		}
		if rawWay == nil {
			errs = append(errs, fmt.Errorf("way %d referenced by relation %d not found", m.Ref, raw.ID))
			continue
		}
		way, err := c.Way(rawWay)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		members = append(members, area.MemberWay{Way: way, Role: m.Role})
	}

	return members, errs
}

// RelationHeader builds the osm.Relation object carrying just what
// TagPropagator and Assembler need: id and tags.
func RelationHeader(raw *middle.RawRelation) *osm.Relation {
	return &osm.Relation{
		ID:   osm.RelationID(raw.ID),
		Tags: tagsFromMap(raw.Tags),
	}
}

func tagsFromMap(m map[string]string) osm.Tags {
	if len(m) == 0 {
		return nil
	}
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	return tags
}
