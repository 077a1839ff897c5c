package area

import "testing"

func TestSegmentListExtractFromWayNormalizes(t *testing.T) {
	// A square, node ids in closing order.
	w := way(1, nil,
		node(1, 0, 0),
		node(2, 10, 0),
		node(3, 10, 10),
		node(4, 0, 10),
		node(1, 0, 0),
	)

	var segs SegmentList
	segs.ExtractFromWay(w, roleOuter, nil)

	if segs.Len() != 4 {
		t.Fatalf("expected 4 segments, got %d", segs.Len())
	}
	for _, s := range segs.All() {
		if !(s.First.Loc == s.Second.Loc || s.First.Loc.Less(s.Second.Loc)) {
			t.Errorf("segment not in normal form: %+v", s)
		}
	}
}

func TestSegmentListSortAndDedupeCancelsSharedBorder(t *testing.T) {
	// Two ways sharing edge (A,B) in opposite directions; after dedupe,
	// that edge should vanish entirely.
	a := way(1, nil, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(1, 0, 0))
	b := way(2, nil, node(1, 0, 0), node(3, 10, 10), node(4, 0, 10), node(1, 0, 0))

	var segs SegmentList
	segs.ExtractFromWay(a, roleOuter, nil)
	segs.ExtractFromWay(b, roleOuter, nil)

	before := segs.Len()
	segs.Sort()
	segs.EraseDuplicateSegments()

	if segs.Len() != before-2 {
		t.Fatalf("expected the shared edge to cancel (removing 2 segments), got %d -> %d", before, segs.Len())
	}
	for _, s := range segs.All() {
		sameEdge := (s.First.ID == 1 && s.Second.ID == 3) || (s.First.ID == 3 && s.Second.ID == 1)
		if sameEdge {
			t.Errorf("shared edge 1-3 should have been cancelled, found %+v", s)
		}
	}
}

func TestFindIntersectionsDetectsCrossing(t *testing.T) {
	a := way(1, nil, node(1, 0, 0), node(2, 10, 10))
	b := way(2, nil, node(3, 0, 10), node(4, 10, 0))

	var segs SegmentList
	segs.ExtractFromWay(a, roleOuter, nil)
	segs.ExtractFromWay(b, roleOuter, nil)
	segs.Sort()

	var rec RecordingReporter
	if !segs.FindIntersections(&rec) {
		t.Fatal("expected an intersection to be found")
	}
	if rec.Count("segment_intersection") != 1 {
		t.Fatalf("expected exactly one segment_intersection report, got %d", rec.Count("segment_intersection"))
	}
}

func TestFindIntersectionsIgnoresSharedEndpoint(t *testing.T) {
	w := way(1, nil, node(1, 0, 0), node(2, 10, 0), node(3, 10, 10), node(1, 0, 0))

	var segs SegmentList
	segs.ExtractFromWay(w, roleOuter, nil)
	segs.Sort()

	var rec RecordingReporter
	if segs.FindIntersections(&rec) {
		t.Fatalf("adjacent segments sharing an endpoint should not be reported as crossing: %+v", rec.Problems)
	}
}
