package area

import "container/list"

// RingBuilder incrementally assembles ProtoRings from a sorted
// SegmentList: each segment is tacked onto either end of an existing open
// ring if possible, or starts a new ring. After every attach it checks for
// a closed sub-ring at the modified end and for rings it can now merge
// with, splitting or combining as needed.
//
// Rings are kept in a container/list.List rather than a slice because the
// merge step removes an arbitrary ring from the middle of the collection
// while a range over it is in progress elsewhere (possiblyCombineRings*
// iterates b.rings while mutating it) — a slice would need careful index
// bookkeeping to avoid skipping or re-visiting elements after a deletion.
type RingBuilder struct {
	rings    *list.List // of *ProtoRing
	reporter ProblemReporter
}

// NewRingBuilder creates an empty RingBuilder reporting through reporter
// (may be nil).
func NewRingBuilder(reporter ProblemReporter) *RingBuilder {
	return &RingBuilder{rings: list.New(), reporter: reporter}
}

// Add processes one segment: attach it to an existing open ring, or start
// a new ring for it.
func (b *RingBuilder) Add(seg Segment) {
	if b.addToExistingRing(seg) {
		return
	}
	b.rings.PushBack(NewProtoRing(seg))
}

// Rings returns every ring currently held, in insertion/merge order.
func (b *RingBuilder) Rings() []*ProtoRing {
	out := make([]*ProtoRing, 0, b.rings.Len())
	for e := b.rings.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*ProtoRing))
	}
	return out
}

// CheckForOpenRings reports (via reporter) every ring that isn't closed,
// and returns true iff at least one was found — any open ring fails the
// whole assembly.
func (b *RingBuilder) CheckForOpenRings() bool {
	open := false
	for e := b.rings.Front(); e != nil; e = e.Next() {
		r := e.Value.(*ProtoRing)
		if !r.Closed() {
			open = true
			if b.reporter != nil {
				b.reporter.ReportRingNotClosed(r.Front().Loc, r.Back().Loc)
			}
		}
	}
	return open
}

// addToExistingRing tries the four attach cases (front/front, front/back,
// back/front, back/back) against every open ring, in order; the first
// match wins.
func (b *RingBuilder) addToExistingRing(seg Segment) bool {
	for e := b.rings.Front(); e != nil; e = e.Next() {
		ring := e.Value.(*ProtoRing)
		if ring.Closed() {
			continue
		}
		switch {
		case SameLocation(b.reporter, ring.Back(), seg.First):
			b.combineAtBack(e, seg)
			return true
		case SameLocation(b.reporter, ring.Back(), seg.Second):
			seg.Reverse()
			b.combineAtBack(e, seg)
			return true
		case SameLocation(b.reporter, ring.Front(), seg.First):
			seg.Reverse()
			b.combineAtFront(e, seg)
			return true
		case SameLocation(b.reporter, ring.Front(), seg.Second):
			b.combineAtFront(e, seg)
			return true
		}
	}
	return false
}

func (b *RingBuilder) combineAtBack(e *list.Element, seg Segment) {
	ring := e.Value.(*ProtoRing)
	ring.AddSegmentBack(seg)
	b.hasClosedSubringBack(ring, seg.Second)
	if b.possiblyCombineRingsBack(e, ring) {
		b.checkForClosedSubring(ring)
	}
}

func (b *RingBuilder) combineAtFront(e *list.Element, seg Segment) {
	ring := e.Value.(*ProtoRing)
	ring.AddSegmentFront(seg)
	b.hasClosedSubringFront(ring, seg.First)
	if b.possiblyCombineRingsFront(e, ring) {
		b.checkForClosedSubring(ring)
	}
}

// hasClosedSubringBack detects a figure-eight closure at the ring's back
// end: if nr's location coincides with an *interior* endpoint (not either
// terminal), the segments from that point to the end form a closed
// sub-ring, split off as its own ProtoRing.
func (b *RingBuilder) hasClosedSubringBack(ring *ProtoRing, nr NodeRef) bool {
	segs := ring.segments
	if len(segs) < 3 {
		return false
	}
	for i := 1; i < len(segs)-1; i++ {
		if SameLocation(b.reporter, nr, segs[i].First) {
			b.splitOffSubring(ring, i, len(segs))
			return true
		}
	}
	return false
}

// hasClosedSubringFront is the mirror image of hasClosedSubringBack for
// the front end.
func (b *RingBuilder) hasClosedSubringFront(ring *ProtoRing, nr NodeRef) bool {
	segs := ring.segments
	if len(segs) < 3 {
		return false
	}
	for i := 1; i < len(segs)-1; i++ {
		if SameLocation(b.reporter, nr, segs[i].Second) {
			b.splitOffSubring(ring, 0, i+1)
			return true
		}
	}
	return false
}

// splitOffSubring extracts ring.segments[begin:end] into a new ProtoRing
// and removes that range from ring, leaving the remainder in place.
func (b *RingBuilder) splitOffSubring(ring *ProtoRing, begin, end int) {
	newRing := newProtoRingFromSegments(ring.segments[begin:end])
	ring.RemoveSegments(begin, end)
	b.rings.PushBack(newRing)
}

// possiblyCombineRingsBack looks for another open ring whose front or
// back matches ring's back, and merges it in if found.
func (b *RingBuilder) possiblyCombineRingsBack(self *list.Element, ring *ProtoRing) bool {
	nr := ring.Back()
	for e := b.rings.Front(); e != nil; {
		next := e.Next()
		if e == self {
			e = next
			continue
		}
		other := e.Value.(*ProtoRing)
		if other.Closed() {
			e = next
			continue
		}
		if SameLocation(b.reporter, nr, other.Front()) {
			ring.MergeRing(other)
			b.rings.Remove(e)
			return true
		}
		if SameLocation(b.reporter, nr, other.Back()) {
			ring.MergeRingReverse(other)
			b.rings.Remove(e)
			return true
		}
		e = next
	}
	return false
}

// possiblyCombineRingsFront is the mirror image of possiblyCombineRingsBack
// for ring's front end.
func (b *RingBuilder) possiblyCombineRingsFront(self *list.Element, ring *ProtoRing) bool {
	nr := ring.Front()
	for e := b.rings.Front(); e != nil; {
		next := e.Next()
		if e == self {
			e = next
			continue
		}
		other := e.Value.(*ProtoRing)
		if other.Closed() {
			e = next
			continue
		}
		if SameLocation(b.reporter, nr, other.Back()) {
			ring.SwapSegments(other)
			ring.MergeRing(other)
			b.rings.Remove(e)
			return true
		}
		if SameLocation(b.reporter, nr, other.Front()) {
			ring.Reverse()
			ring.MergeRing(other)
			b.rings.Remove(e)
			return true
		}
		e = next
	}
	return false
}

// checkForClosedSubring runs the *global* subring check after a ring
// merge: sort a copy of the combined ring's segments by endpoint; any
// adjacent pair sharing a First location marks an interior coincidence,
// and the ring is split between the two matching original segments.
func (b *RingBuilder) checkForClosedSubring(ring *ProtoRing) bool {
	sorted := make([]indexedSegment, len(ring.segments))
	for i, s := range ring.segments {
		sorted[i] = indexedSegment{seg: s, idx: i}
	}
	sortIndexed(sorted)

	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].seg.First.Loc == sorted[i+1].seg.First.Loc {
			i1, i2 := sorted[i].idx, sorted[i+1].idx
			if i1 > i2 {
				i1, i2 = i2, i1
			}
			newRing := newProtoRingFromSegments(ring.segments[i1:i2])
			ring.RemoveSegments(i1, i2)
			b.rings.PushBack(newRing)
			return true
		}
	}
	return false
}

// indexedSegment pairs a segment with its original position in the ring,
// so a sort-by-endpoint pass can still report where each match came from.
type indexedSegment struct {
	seg Segment
	idx int
}

func sortIndexed(s []indexedSegment) {
	// Simple insertion sort: the per-ring segment count is small (bounded
	// by one relation's members), so this keeps the comparator local
	// without needing a dedicated sort.Interface type.
	for i := 1; i < len(s); i++ {
		j := i
		for j > 0 && less(s[j].seg, s[j-1].seg) {
			s[j], s[j-1] = s[j-1], s[j]
			j--
		}
	}
}

func less(a, b Segment) bool {
	if a.First.Loc != b.First.Loc {
		return a.First.Loc.Less(b.First.Loc)
	}
	return a.Second.Loc.Less(b.Second.Loc)
}
