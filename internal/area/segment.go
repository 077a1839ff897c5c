package area

import (
	"sort"

	"github.com/paulmach/osm"
)

const (
	roleOuter = "outer"
	roleInner = "inner"
)

// Segment is a directed edge between two NodeRefs, carrying the way it
// came from and the role ("outer"/"inner") that way was given. Segments
// are put in normal form when extracted into a SegmentList: First is the
// lexicographically smaller endpoint.
type Segment struct {
	First, Second NodeRef
	Way           *osm.Way
	Role          string
}

// Reverse swaps the segment's endpoints in place, preserving provenance.
func (s *Segment) Reverse() {
	s.First, s.Second = s.Second, s.First
}

// RoleOuter reports whether this segment's source way was tagged outer.
func (s Segment) RoleOuter() bool { return s.Role == roleOuter }

// RoleInner reports whether this segment's source way was tagged inner.
func (s Segment) RoleInner() bool { return s.Role == roleInner }

// toLeftOf reports whether the segment passes strictly to the left of p,
// i.e. a leftward ray from p (in the -x direction) crosses the open
// segment. Used by the scanline classifier (classifier.go).
func (s Segment) toLeftOf(p Location) bool {
	a, b := s.First.Loc, s.Second.Loc
	if (a.Y > p.Y) == (b.Y > p.Y) {
		// Segment doesn't straddle p's y coordinate.
		return false
	}
	// x coordinate where the segment crosses y = p.Y.
	t := float64(p.Y-a.Y) / float64(b.Y-a.Y)
	xCross := float64(a.X) + t*float64(b.X-a.X)
	return xCross < float64(p.X)
}

// SegmentList is the flat, ordered collection of directed edges extracted
// from one area's input ways, normalized and deduplicated before ring
// construction begins.
type SegmentList struct {
	segments []Segment
}

// Len returns the number of segments currently in the list.
func (l *SegmentList) Len() int { return len(l.segments) }

// All returns the list's segments in their current order.
func (l *SegmentList) All() []Segment { return l.segments }

// ExtractFromWay appends one segment per consecutive node pair in way,
// each carrying role. Endpoints are normalized (lexicographically smaller
// first); reversal is recoverable because the segment still points back
// at the source way.
func (l *SegmentList) ExtractFromWay(way *osm.Way, role string, reporter ProblemReporter) {
	nodes := way.Nodes
	if len(nodes) < 2 {
		return
	}
	if nodes[0].ID != nodes[len(nodes)-1].ID {
		first := nodeRefFromWayNode(nodes[0])
		last := nodeRefFromWayNode(nodes[len(nodes)-1])
		SameLocation(reporter, first, last)
	}
	for i := 0; i+1 < len(nodes); i++ {
		a := nodeRefFromWayNode(nodes[i])
		b := nodeRefFromWayNode(nodes[i+1])
		seg := Segment{First: a, Second: b, Way: way, Role: role}
		if b.Loc.Less(a.Loc) {
			seg.Reverse()
		}
		l.segments = append(l.segments, seg)
	}
}

func nodeRefFromWayNode(wn osm.WayNode) NodeRef {
	return NodeRef{ID: int64(wn.ID), Loc: LocationFromLonLat(wn.Lon, wn.Lat)}
}

// MemberWay is one relation member already resolved to its Way, paired
// with the role declared on the relation. Resolving members (looking up
// the referenced way by id) is the external collector's job (see
// internal/areacollector); SegmentList only needs the result.
type MemberWay struct {
	Way  *osm.Way
	Role string
}

// ExtractFromRelationMembers extracts segments from every resolved member
// way whose declared role is "outer" or "inner"; a member with any other
// role (including an empty one) is skipped: no segments are extracted for
// it and no diagnostic is reported.
func (l *SegmentList) ExtractFromRelationMembers(members []MemberWay, reporter ProblemReporter) {
	for _, m := range members {
		if m.Role != roleOuter && m.Role != roleInner {
			continue
		}
		l.ExtractFromWay(m.Way, m.Role, reporter)
	}
}

// Sort orders segments lexicographically by (First.Loc, Second.Loc).
func (l *SegmentList) Sort() {
	sort.Slice(l.segments, func(i, j int) bool {
		a, b := l.segments[i], l.segments[j]
		if a.First.Loc != b.First.Loc {
			return a.First.Loc.Less(b.First.Loc)
		}
		return a.Second.Loc.Less(b.Second.Loc)
	})
}

// EraseDuplicateSegments removes both copies of any adjacent equal pair
// (after Sort), cancelling a shared border traced in opposite directions
// by two adjacent ways.
func (l *SegmentList) EraseDuplicateSegments() {
	out := l.segments[:0]
	i := 0
	for i < len(l.segments) {
		if i+1 < len(l.segments) && sameEndpoints(l.segments[i], l.segments[i+1]) {
			i += 2
			continue
		}
		out = append(out, l.segments[i])
		i++
	}
	l.segments = out
}

func sameEndpoints(a, b Segment) bool {
	return a.First.Loc == b.First.Loc && a.Second.Loc == b.Second.Loc
}

// FindIntersections reports (via reporter) every pair of segments whose
// open interiors cross strictly. Pairs that share any endpoint location
// are skipped, and an endpoint lying on another segment's interior or a
// collinear overlap is not reported. Returns true iff at least one was found,
// in which case the caller must abort ring construction (spec: a crossing
// invalidates the whole area).
//
// The sweep is a pairwise scan of the sorted list restricted to segments
// whose bounding boxes overlap in x — sufficient here because S (segments
// per area) is bounded by the members of a single relation, not by the
// whole planet.
func (l *SegmentList) FindIntersections(reporter ProblemReporter) bool {
	found := false
	n := len(l.segments)
	for i := 0; i < n; i++ {
		a := l.segments[i]
		// Normal form guarantees First.X <= Second.X, so a.Second.Loc.X is
		// this segment's rightmost extent.
		aMaxX := a.Second.Loc.X
		for j := i + 1; j < n; j++ {
			b := l.segments[j]
			// The list is sorted by First.Loc, so b.First.Loc.X is
			// non-decreasing as j grows: once it passes aMaxX, no later
			// segment can overlap a's x-range either.
			if b.First.Loc.X > aMaxX {
				break
			}
			if segmentsShareChainEndpoint(a, b) {
				continue
			}
			if pt, ok := intersect(a, b); ok {
				if reporter != nil {
					reporter.ReportSegmentIntersection(a.First.Loc, a.Second.Loc, b.First.Loc, b.Second.Loc, pt)
				}
				found = true
			}
		}
	}
	return found
}

func segmentsShareChainEndpoint(a, b Segment) bool {
	return a.First.Loc == b.First.Loc || a.First.Loc == b.Second.Loc ||
		a.Second.Loc == b.First.Loc || a.Second.Loc == b.Second.Loc
}

// intersect implements the classic orientation test: two segments cross
// strictly iff each one's endpoints straddle the other's supporting line.
// Returns the intersection point when they do.
func intersect(a, b Segment) (Location, bool) {
	p1, p2 := a.First.Loc, a.Second.Loc
	p3, p4 := b.First.Loc, b.Second.Loc

	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return lineIntersection(p1, p2, p3, p4), true
	}
	return Location{}, false
}

// cross computes the signed area of the triangle (o, a, b); its sign
// gives the orientation test used by intersect.
func cross(o, a, b Location) float64 {
	return float64(a.X-o.X)*float64(b.Y-o.Y) - float64(a.Y-o.Y)*float64(b.X-o.X)
}

func lineIntersection(p1, p2, p3, p4 Location) Location {
	x1, y1 := float64(p1.X), float64(p1.Y)
	x2, y2 := float64(p2.X), float64(p2.Y)
	x3, y3 := float64(p3.X), float64(p3.Y)
	x4, y4 := float64(p4.X), float64(p4.Y)

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return Location{}
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	return Location{
		X: int32(x1 + t*(x2-x1)),
		Y: int32(y1 + t*(y2-y1)),
	}
}
