package area

import "testing"

func TestAssembleWaySimpleSquare(t *testing.T) {
	w := way(42, map[string]string{"building": "yes"},
		node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(4, 0, 10), node(1, 0, 0))

	a := NewAssembler(AssemblerConfig{})
	area := a.AssembleWay(w)

	if area.ID != 84 {
		t.Errorf("expected way-derived area id to be 2*wayID (84), got %d", area.ID)
	}
	if len(area.Rings) != 1 {
		t.Fatalf("expected exactly 1 ring, got %d", len(area.Rings))
	}
	if len(area.Rings[0].Inners) != 0 {
		t.Errorf("a plain square should have no inner rings, got %d", len(area.Rings[0].Inners))
	}
	if tagVal(area.Tags, "building") != "yes" {
		t.Errorf("expected the way's tags to carry through, got %+v", area.Tags)
	}
}

func TestAssembleWayOpenRingFailsStructurally(t *testing.T) {
	w := way(1, nil, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10))

	a := NewAssembler(AssemblerConfig{})
	area := a.AssembleWay(w)

	if len(area.Rings) != 0 {
		t.Fatalf("an unclosed way should assemble to an empty-rings area, got %d rings", len(area.Rings))
	}
}

func TestAssembleRelationSquareWithHole(t *testing.T) {
	outer := way(1, nil, node(1, 0, 0), node(2, 100, 0), node(3, 100, 100), node(4, 0, 100), node(1, 0, 0))
	inner := way(2, nil, node(5, 25, 25), node(6, 35, 25), node(7, 35, 35), node(8, 25, 35), node(5, 25, 25))
	rel := relation(7, map[string]string{"type": "multipolygon", "landuse": "forest"})

	members := []MemberWay{{Way: outer, Role: roleOuter}, {Way: inner, Role: roleInner}}

	a := NewAssembler(AssemblerConfig{})
	var emitted []Area
	main := a.AssembleRelation(rel, members, func(ar Area) { emitted = append(emitted, ar) })

	if main.ID != 15 {
		t.Errorf("expected relation-derived area id to be 2*relationID+1 (15), got %d", main.ID)
	}
	if len(emitted) != 1 {
		t.Fatalf("expected exactly 1 emitted area (no promotion, inner has no distinct tags), got %d", len(emitted))
	}
	if len(emitted[0].Rings) != 1 || len(emitted[0].Rings[0].Inners) != 1 {
		t.Fatalf("expected 1 outer ring with 1 hole, got %+v", emitted[0].Rings)
	}
	if tagVal(emitted[0].Tags, "landuse") != "forest" {
		t.Errorf("expected the relation's own tags to propagate, got %+v", emitted[0].Tags)
	}
}

func TestAssembleRelationPromotesDistinctlyTaggedClosedInner(t *testing.T) {
	outer := way(1, nil, node(1, 0, 0), node(2, 100, 0), node(3, 100, 100), node(4, 0, 100), node(1, 0, 0))
	inner := way(2, map[string]string{"building": "yes"},
		node(5, 25, 25), node(6, 35, 25), node(7, 35, 35), node(8, 25, 35), node(5, 25, 25))
	rel := relation(7, map[string]string{"type": "multipolygon", "landuse": "forest"})

	members := []MemberWay{{Way: outer, Role: roleOuter}, {Way: inner, Role: roleInner}}

	a := NewAssembler(AssemblerConfig{})
	var emitted []Area
	a.AssembleRelation(rel, members, func(ar Area) { emitted = append(emitted, ar) })

	if len(emitted) != 2 {
		t.Fatalf("expected the main area plus one promoted inner area, got %d", len(emitted))
	}
	promoted := emitted[1]
	if promoted.ID != 4 {
		t.Errorf("expected the promoted area to reuse way-mode id 2*wayID (4), got %d", promoted.ID)
	}
	if tagVal(promoted.Tags, "building") != "yes" {
		t.Errorf("expected the promoted area to carry the inner way's own tags, got %+v", promoted.Tags)
	}
}

func TestAssembleRelationCrossingSegmentsFailsStructurally(t *testing.T) {
	a1 := way(1, nil, node(1, 0, 0), node(2, 10, 10))
	a2 := way(2, nil, node(3, 0, 10), node(4, 10, 0))
	rel := relation(1, map[string]string{"type": "multipolygon"})

	members := []MemberWay{{Way: a1, Role: roleOuter}, {Way: a2, Role: roleOuter}}

	a := NewAssembler(AssemblerConfig{})
	var emitted []Area
	main := a.AssembleRelation(rel, members, func(ar Area) { emitted = append(emitted, ar) })

	if len(main.Rings) != 0 {
		t.Fatalf("crossing segments should fail assembly structurally, got %d rings", len(main.Rings))
	}
	if len(emitted) != 1 {
		t.Fatalf("expected exactly the empty-shell main area to be emitted, got %d", len(emitted))
	}
}

func TestAssembleRelationRoleMismatchSkipsPromotion(t *testing.T) {
	// A ring built entirely from "inner"-tagged ways but classified outer
	// by geometry (it's the only ring) — a role/geometry mismatch that
	// should suppress the closed-inner promotion pass entirely. The way is
	// closed and its tags differ from the area's, so without the mismatch
	// it would be promoted.
	outer := way(1, map[string]string{"building": "yes"}, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(4, 0, 10), node(1, 0, 0))
	rel := relation(1, map[string]string{"type": "multipolygon", "landuse": "forest"})

	members := []MemberWay{{Way: outer, Role: roleInner}}

	var rec RecordingReporter
	a := NewAssembler(AssemblerConfig{Reporter: &rec})
	var emitted []Area
	a.AssembleRelation(rel, members, func(ar Area) { emitted = append(emitted, ar) })

	if rec.Count("role_should_be_outer") != 4 {
		t.Fatalf("expected every segment of the mismatched ring to be reported, got %d", rec.Count("role_should_be_outer"))
	}
	if len(emitted) != 1 {
		t.Fatalf("a role mismatch must suppress closed-inner promotion, got %d emitted areas", len(emitted))
	}
}
