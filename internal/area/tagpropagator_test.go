package area

import (
	"testing"

	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2pgsql-go/internal/style"
)

func tagVal(tags osm.Tags, key string) string {
	for _, t := range tags {
		if t.Key == key {
			return t.Value
		}
	}
	return ""
}

func TestTagPropagatorForWayCopiesAllTags(t *testing.T) {
	w := way(1, map[string]string{"building": "yes", "name": "Shed"})
	tags := NewTagPropagator(nil).ForWay(w)
	if tagVal(tags, "building") != "yes" || tagVal(tags, "name") != "Shed" {
		t.Fatalf("expected all way tags to be copied unfiltered, got %+v", tags)
	}
}

func TestTagPropagatorForRelationPrefersRelationTags(t *testing.T) {
	r := relation(1, map[string]string{"type": "multipolygon", "landuse": "forest"})
	outer := way(1, map[string]string{"landuse": "residential"}, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(1, 0, 0))
	ring := ringFromSegments([]Segment{
		{First: nr(1, 0, 0), Second: nr(2, 10, 0), Way: outer, Role: roleOuter},
		{First: nr(2, 10, 0), Second: nr(3, 10, 10), Way: outer, Role: roleOuter},
		{First: nr(3, 10, 10), Second: nr(1, 0, 0), Way: outer, Role: roleOuter},
	})
	ring.SetOuter()

	tags := NewTagPropagator(style.DefaultMultipolygonKeyFilter()).ForRelation(r, []*ProtoRing{ring})

	if tagVal(tags, "landuse") != "forest" {
		t.Fatalf("expected relation tags to win when present after filtering, got %+v", tags)
	}
	if tagVal(tags, "type") != "" {
		t.Errorf("expected the relation's own type tag to be stripped, got %+v", tags)
	}
}

func TestTagPropagatorForRelationFallsBackToSingleOuterWay(t *testing.T) {
	r := relation(1, map[string]string{"type": "multipolygon"})
	outer := way(1, map[string]string{"landuse": "forest"}, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(1, 0, 0))
	ring := ringFromSegments([]Segment{
		{First: nr(1, 0, 0), Second: nr(2, 10, 0), Way: outer, Role: roleOuter},
		{First: nr(2, 10, 0), Second: nr(3, 10, 10), Way: outer, Role: roleOuter},
		{First: nr(3, 10, 10), Second: nr(1, 0, 0), Way: outer, Role: roleOuter},
	})
	ring.SetOuter()

	tags := NewTagPropagator(style.DefaultMultipolygonKeyFilter()).ForRelation(r, []*ProtoRing{ring})
	if tagVal(tags, "landuse") != "forest" {
		t.Fatalf("expected the single outer way's tags when the relation carries none, got %+v", tags)
	}
}

func TestTagPropagatorForRelationFallsBackToCommonTags(t *testing.T) {
	r := relation(1, map[string]string{"type": "multipolygon"})
	outerA := way(1, map[string]string{"landuse": "forest", "name": "North Block"},
		node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(1, 0, 0))
	outerB := way(2, map[string]string{"landuse": "forest", "name": "South Block"},
		node(4, 20, 0), node(5, 30, 0), node(6, 30, 10), node(4, 20, 0))

	ringA := ringFromSegments([]Segment{
		{First: nr(1, 0, 0), Second: nr(2, 10, 0), Way: outerA, Role: roleOuter},
		{First: nr(2, 10, 0), Second: nr(3, 10, 10), Way: outerA, Role: roleOuter},
		{First: nr(3, 10, 10), Second: nr(1, 0, 0), Way: outerA, Role: roleOuter},
	})
	ringA.SetOuter()
	ringB := ringFromSegments([]Segment{
		{First: nr(4, 20, 0), Second: nr(5, 30, 0), Way: outerB, Role: roleOuter},
		{First: nr(5, 30, 0), Second: nr(6, 30, 10), Way: outerB, Role: roleOuter},
		{First: nr(6, 30, 10), Second: nr(4, 20, 0), Way: outerB, Role: roleOuter},
	})
	ringB.SetOuter()

	tags := NewTagPropagator(style.DefaultMultipolygonKeyFilter()).ForRelation(r, []*ProtoRing{ringA, ringB})
	if tagVal(tags, "landuse") != "forest" {
		t.Errorf("expected the tag common to every outer way to survive, got %+v", tags)
	}
	if tagVal(tags, "name") != "" {
		t.Errorf("expected the tag that differs between outer ways to be dropped, got %+v", tags)
	}
}
