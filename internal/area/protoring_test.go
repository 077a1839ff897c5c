package area

import "testing"

func square(ids [4]int64, x0, y0, size float64) []Segment {
	pts := [4]NodeRef{
		{ID: ids[0], Loc: LocationFromLonLat(x0, y0)},
		{ID: ids[1], Loc: LocationFromLonLat(x0+size, y0)},
		{ID: ids[2], Loc: LocationFromLonLat(x0+size, y0+size)},
		{ID: ids[3], Loc: LocationFromLonLat(x0, y0+size)},
	}
	segs := make([]Segment, 4)
	for i := 0; i < 4; i++ {
		segs[i] = Segment{First: pts[i], Second: pts[(i+1)%4]}
	}
	return segs
}

func ringFromSegments(segs []Segment) *ProtoRing {
	r := NewProtoRing(segs[0])
	for _, s := range segs[1:] {
		r.AddSegmentBack(s)
	}
	return r
}

func TestProtoRingClosedRequiresThreeSegmentsAndMatchingEnds(t *testing.T) {
	segs := square([4]int64{1, 2, 3, 4}, 0, 0, 10)
	r := ringFromSegments(segs)
	// The chain visits 1->2->3->4->1: Front is node1 and Back is node1's
	// location too (segment 4 ends back at node1), so with all 4 segments
	// present it should read as closed.
	if !r.Closed() {
		t.Fatalf("expected ring to be closed: front=%v back=%v", r.Front(), r.Back())
	}

	// The first three segments end at node4, not node1: ends don't match.
	if open := ringFromSegments(segs[:3]); open.Closed() {
		t.Fatalf("expected a chain with mismatched ends to be open: front=%v back=%v", open.Front(), open.Back())
	}

	// Out to node2 and back: ends match, but two segments bound no area.
	back := segs[0]
	back.Reverse()
	if short := ringFromSegments([]Segment{segs[0], back}); short.Closed() {
		t.Fatal("expected a two-segment chain not to read as closed")
	}
}

func TestProtoRingAreaSignAndReverse(t *testing.T) {
	segs := square([4]int64{1, 2, 3, 4}, 0, 0, 10)
	r := ringFromSegments(segs)

	area1 := r.Area()
	wasCW := r.IsCW()

	r.Reverse()
	area2 := r.Area()

	if area1 == area2 {
		t.Fatalf("reversing a ring should flip the sign of its area: %v vs %v", area1, area2)
	}
	if r.IsCW() == wasCW {
		t.Fatalf("reversing a ring should flip its winding")
	}
}

func TestProtoRingMinNode(t *testing.T) {
	segs := square([4]int64{1, 2, 3, 4}, 5, 5, 10)
	r := ringFromSegments(segs)
	min := r.MinNode()
	if min.ID != 1 {
		t.Fatalf("expected node 1 (the lexicographically smallest corner) to be min_node, got %d", min.ID)
	}
}

func TestProtoRingIsIn(t *testing.T) {
	outerSegs := square([4]int64{1, 2, 3, 4}, 0, 0, 100)
	outer := ringFromSegments(outerSegs)

	innerSegs := square([4]int64{5, 6, 7, 8}, 25, 25, 10)
	inner := ringFromSegments(innerSegs)

	if !inner.IsIn(outer) {
		t.Fatal("expected inner square to be detected as contained in outer square")
	}

	farSegs := square([4]int64{9, 10, 11, 12}, 500, 500, 10)
	far := ringFromSegments(farSegs)
	if far.IsIn(outer) {
		t.Fatal("a square far outside the outer ring should not be considered contained")
	}
}
