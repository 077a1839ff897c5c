package area

import "testing"

func buildRingsFromWays(t *testing.T, members []MemberWay) (*SegmentList, []*ProtoRing) {
	t.Helper()
	segments := &SegmentList{}
	segments.ExtractFromRelationMembers(members, nil)
	segments.Sort()
	segments.EraseDuplicateSegments()
	if segments.FindIntersections(nil) {
		t.Fatal("unexpected self-intersection in test fixture")
	}
	builder := NewRingBuilder(nil)
	for _, s := range segments.All() {
		builder.Add(s)
	}
	if builder.CheckForOpenRings() {
		t.Fatal("unexpected open ring in test fixture")
	}
	return segments, builder.Rings()
}

func TestClassifierSquareWithHole(t *testing.T) {
	outer := way(1, nil, node(1, 0, 0), node(2, 100, 0), node(3, 100, 100), node(4, 0, 100), node(1, 0, 0))
	inner := way(2, nil, node(5, 25, 25), node(6, 35, 25), node(7, 35, 35), node(8, 25, 35), node(5, 25, 25))

	members := []MemberWay{{Way: outer, Role: roleOuter}, {Way: inner, Role: roleInner}}
	segments, rings := buildRingsFromWays(t, members)
	if len(rings) != 2 {
		t.Fatalf("expected 2 rings (outer + hole), got %d", len(rings))
	}

	classifier := NewClassifier(segments, nil)
	outers := classifier.Classify(rings)

	if len(outers) != 1 {
		t.Fatalf("expected 1 outer ring, got %d", len(outers))
	}
	o := outers[0]
	if !o.Outer() {
		t.Error("expected the bounding square to be classified outer")
	}
	if !o.IsCW() {
		t.Error("expected the outer ring's winding to be normalized to the clockwise convention")
	}
	if len(o.InnerRings()) != 1 {
		t.Fatalf("expected 1 inner ring attached to the outer, got %d", len(o.InnerRings()))
	}
	hole := o.InnerRings()[0]
	if hole.IsCW() {
		t.Error("expected the inner ring's winding to be normalized opposite the outer's")
	}
}

func TestClassifierSingleRingIsAlwaysOuter(t *testing.T) {
	outer := way(1, nil, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(4, 0, 10), node(1, 0, 0))
	members := []MemberWay{{Way: outer, Role: roleOuter}}
	segments, rings := buildRingsFromWays(t, members)

	classifier := NewClassifier(segments, nil)
	outers := classifier.Classify(rings)
	if len(outers) != 1 || !outers[0].Outer() {
		t.Fatalf("a single closed ring must always classify as outer")
	}
}

func TestFindOwnerPicksContainingOuter(t *testing.T) {
	far := ringFromSegments(square([4]int64{1, 2, 3, 4}, 1000, 1000, 10))
	far.SetOuter()
	home := ringFromSegments(square([4]int64{5, 6, 7, 8}, 0, 0, 100))
	home.SetOuter()
	outers := []*ProtoRing{far, home}

	inner := ringFromSegments(square([4]int64{9, 10, 11, 12}, 25, 25, 10))

	c := NewClassifier(&SegmentList{}, nil)
	owner := c.findOwner(inner, outers)
	if owner != home {
		t.Fatal("expected the inner ring to resolve to the outer ring that actually contains it")
	}
}

func TestFindOwnerReturnsNilWhenNoOuterContainsIt(t *testing.T) {
	a := ringFromSegments(square([4]int64{1, 2, 3, 4}, 1000, 1000, 10))
	a.SetOuter()
	b := ringFromSegments(square([4]int64{5, 6, 7, 8}, 2000, 2000, 10))
	b.SetOuter()
	outers := []*ProtoRing{a, b}

	orphan := ringFromSegments(square([4]int64{9, 10, 11, 12}, 0, 0, 10))

	c := NewClassifier(&SegmentList{}, nil)
	if owner := c.findOwner(orphan, outers); owner != nil {
		t.Fatalf("expected no owner for a ring contained by neither outer, got %+v", owner)
	}
}
