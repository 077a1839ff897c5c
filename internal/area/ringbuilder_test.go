package area

import "testing"

func nr(id int64, lon, lat float64) NodeRef {
	return NodeRef{ID: id, Loc: LocationFromLonLat(lon, lat)}
}

func TestRingBuilderSplitsFigureEight(t *testing.T) {
	n1, n2, n3, n4, n5 := nr(1, 0, 0), nr(2, 10, 0), nr(3, 10, 10), nr(4, 0, 10), nr(5, -10, 10)

	b := NewRingBuilder(nil)
	b.Add(Segment{First: n1, Second: n2})
	b.Add(Segment{First: n2, Second: n3})
	b.Add(Segment{First: n3, Second: n4})
	b.Add(Segment{First: n4, Second: n5})
	// Closes a loop back through node 2, an interior point of the chain
	// built so far — this should split off [2,3,4,5,2] as its own closed
	// ring and leave [1,2] behind as a still-open remainder.
	b.Add(Segment{First: n5, Second: n2})

	rings := b.Rings()
	if len(rings) != 2 {
		t.Fatalf("expected the figure-eight closure to split into 2 rings, got %d", len(rings))
	}

	var open, closed *ProtoRing
	for _, r := range rings {
		if r.Closed() {
			closed = r
		} else {
			open = r
		}
	}
	if closed == nil || open == nil {
		t.Fatalf("expected one open and one closed ring, got %+v", rings)
	}
	if len(closed.Segments()) != 4 {
		t.Errorf("expected the split-off sub-ring to keep its 4 segments, got %d", len(closed.Segments()))
	}
	if len(open.Segments()) != 1 {
		t.Errorf("expected the remainder to keep just the 1 untouched segment, got %d", len(open.Segments()))
	}
}

func TestRingBuilderMergesSeparateChains(t *testing.T) {
	n1, n2, n3, n4, n5 := nr(1, 0, 0), nr(2, 10, 0), nr(3, 10, 10), nr(4, 20, 10), nr(5, 20, 20)

	b := NewRingBuilder(nil)
	b.Add(Segment{First: n1, Second: n2})
	b.Add(Segment{First: n2, Second: n3})
	b.Add(Segment{First: n4, Second: n5}) // a second, disjoint chain
	// Bridges the two chains: matches the first chain's back (n3) and the
	// second chain's front (n4).
	b.Add(Segment{First: n3, Second: n4})

	rings := b.Rings()
	if len(rings) != 1 {
		t.Fatalf("expected the bridging segment to merge both chains into 1 ring, got %d", len(rings))
	}
	merged := rings[0]
	if len(merged.Segments()) != 4 {
		t.Fatalf("expected the merged ring to carry all 4 segments, got %d", len(merged.Segments()))
	}
	if merged.Front().ID != 1 || merged.Back().ID != 5 {
		t.Errorf("expected merged chain 1..5, got front=%d back=%d", merged.Front().ID, merged.Back().ID)
	}
}

func TestRingBuilderCheckForOpenRings(t *testing.T) {
	n1, n2, n3 := nr(1, 0, 0), nr(2, 10, 0), nr(3, 10, 10)

	b := NewRingBuilder(nil)
	b.Add(Segment{First: n1, Second: n2})
	b.Add(Segment{First: n2, Second: n3})

	if !b.CheckForOpenRings() {
		t.Fatal("expected an unclosed 2-segment chain to be reported as an open ring")
	}
}

func TestRingBuilderClosedRingIsNotOpen(t *testing.T) {
	segs := square([4]int64{1, 2, 3, 4}, 0, 0, 10)
	b := NewRingBuilder(nil)
	for _, s := range segs {
		b.Add(s)
	}
	if b.CheckForOpenRings() {
		t.Fatal("a fully closed square should not be reported as an open ring")
	}
	if len(b.Rings()) != 1 {
		t.Fatalf("expected exactly 1 ring, got %d", len(b.Rings()))
	}
}
