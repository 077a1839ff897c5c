package area

import (
	"math"

	"github.com/paulmach/osm"
)

// RoleClassification is the outcome of the Classifier's scanline pass for
// one ring.
type RoleClassification int

const (
	RoleUndetermined RoleClassification = iota
	RoleOuter
	RoleInner
)

// ProtoRing is a growing, ordered, non-empty chain of segments; adjacent
// segments are required to share an endpoint location. It is the unit the
// RingBuilder extends, splits and merges, and the Classifier later labels
// outer or inner.
type ProtoRing struct {
	segments []Segment

	classification RoleClassification
	innerRings      []*ProtoRing
}

// NewProtoRing starts a fresh ring containing exactly one segment.
func NewProtoRing(seg Segment) *ProtoRing {
	return &ProtoRing{segments: []Segment{seg}}
}

// newProtoRingFromSegments builds a ring from an existing, already-ordered
// chain of segments, used when splitting off a sub-ring.
func newProtoRingFromSegments(segs []Segment) *ProtoRing {
	cp := make([]Segment, len(segs))
	copy(cp, segs)
	return &ProtoRing{segments: cp}
}

// Segments returns the ring's segments in chain order.
func (r *ProtoRing) Segments() []Segment { return r.segments }

// Front returns the first endpoint of the chain's first segment.
func (r *ProtoRing) Front() NodeRef { return r.segments[0].First }

// Back returns the second endpoint of the chain's last segment.
func (r *ProtoRing) Back() NodeRef { return r.segments[len(r.segments)-1].Second }

// Closed reports whether the chain's two ends meet and it has enough
// segments to bound an area (at least a triangle).
func (r *ProtoRing) Closed() bool {
	return len(r.segments) >= 3 && r.Front().Loc == r.Back().Loc
}

// AddSegmentFront prepends seg to the chain.
func (r *ProtoRing) AddSegmentFront(seg Segment) {
	r.segments = append([]Segment{seg}, r.segments...)
}

// AddSegmentBack appends seg to the chain.
func (r *ProtoRing) AddSegmentBack(seg Segment) {
	r.segments = append(r.segments, seg)
}

// Reverse flips the chain's direction: segment order is reversed and each
// segment's endpoints are swapped, so Front/Back stay consistent.
func (r *ProtoRing) Reverse() {
	n := len(r.segments)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		r.segments[i], r.segments[j] = r.segments[j], r.segments[i]
	}
	for i := range r.segments {
		r.segments[i].Reverse()
	}
}

// SwapSegments exchanges this ring's segment slice with other's. Used by
// the ring builder when it's cheaper to swap roles than to reverse and
// re-append.
func (r *ProtoRing) SwapSegments(other *ProtoRing) {
	r.segments, other.segments = other.segments, r.segments
}

// MergeRing appends other's segments after this ring's.
func (r *ProtoRing) MergeRing(other *ProtoRing) {
	r.segments = append(r.segments, other.segments...)
}

// MergeRingReverse appends other's segments, reversed, after this ring's.
func (r *ProtoRing) MergeRingReverse(other *ProtoRing) {
	other.Reverse()
	r.segments = append(r.segments, other.segments...)
}

// RemoveSegments deletes the half-open range [begin, end) from the chain.
func (r *ProtoRing) RemoveSegments(begin, end int) {
	r.segments = append(r.segments[:begin], r.segments[end:]...)
}

// Contains reports whether seg is one of this ring's own segments
// (identity by endpoint+way+role match, in either direction, since
// segments aren't pointers here and the ring builder may have reversed
// them); used to exclude a ring's own edges from the scanline count.
func (r *ProtoRing) Contains(seg Segment) bool {
	rev := seg
	rev.Reverse()
	for _, s := range r.segments {
		if s == seg || s == rev {
			return true
		}
	}
	return false
}

// MinNode returns the endpoint with the smallest (X, then Y) among all of
// the ring's endpoints — the basepoint the Classifier casts its ray from.
func (r *ProtoRing) MinNode() NodeRef {
	min := r.segments[0].First
	for _, s := range r.segments {
		for _, nr := range [2]NodeRef{s.First, s.Second} {
			if nr.Loc.Less(min.Loc) {
				min = nr
			}
		}
	}
	return min
}

// Area returns the signed polygon area via the shoelace formula.
func (r *ProtoRing) Area() float64 {
	var sum float64
	for _, s := range r.segments {
		x1, y1 := float64(s.First.Loc.X), float64(s.First.Loc.Y)
		x2, y2 := float64(s.Second.Loc.X), float64(s.Second.Loc.Y)
		sum += x1*y2 - x2*y1
	}
	return sum / 2
}

// IsCW reports whether the ring winds clockwise, under the convention
// fixed here: a positive shoelace-signed area is clockwise. Every caller
// that needs winding goes through this method so the convention only has
// to be decided once.
func (r *ProtoRing) IsCW() bool {
	return r.Area() > 0
}

// AbsArea returns the unsigned area, used when sorting outer rings by
// size for nesting assignment.
func (r *ProtoRing) AbsArea() float64 {
	return math.Abs(r.Area())
}

// Outer reports whether the Classifier assigned this ring the outer role.
func (r *ProtoRing) Outer() bool { return r.classification == RoleOuter }

// SetOuter marks this ring as an outer ring.
func (r *ProtoRing) SetOuter() { r.classification = RoleOuter }

// SetInner marks this ring as an inner ring (hole).
func (r *ProtoRing) SetInner() { r.classification = RoleInner }

// InnerRings returns the inner rings nested directly inside this (outer)
// ring.
func (r *ProtoRing) InnerRings() []*ProtoRing { return r.innerRings }

// AddInnerRing records other as nested inside this outer ring.
func (r *ProtoRing) AddInnerRing(other *ProtoRing) {
	r.innerRings = append(r.innerRings, other)
}

// IsIn reports whether this ring's min-node lies inside outer, via a
// point-in-polygon even/odd test over outer's vertex chain. Used for
// nesting assignment when there's more than one outer ring candidate.
func (r *ProtoRing) IsIn(outer *ProtoRing) bool {
	p := r.MinNode().Loc
	inside := false

	verts := outer.vertexLocations()
	n := len(verts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := verts[i], verts[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := float64(vi.X) + (float64(p.Y-vi.Y)/float64(vj.Y-vi.Y))*float64(vj.X-vi.X)
			if float64(p.X) < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// vertexLocations returns the ring's closed vertex chain (no repeated
// closing point) for point-in-polygon testing.
func (r *ProtoRing) vertexLocations() []Location {
	locs := make([]Location, 0, len(r.segments))
	locs = append(locs, r.Front().Loc)
	for _, s := range r.segments[:len(r.segments)-1] {
		locs = append(locs, s.Second.Loc)
	}
	return locs
}

// Ways returns the set of distinct source ways contributing segments to
// this ring, used by the TagPropagator.
func (r *ProtoRing) Ways() []*osm.Way {
	seen := make(map[*osm.Way]bool)
	var out []*osm.Way
	for _, s := range r.segments {
		if s.Way != nil && !seen[s.Way] {
			seen[s.Way] = true
			out = append(out, s.Way)
		}
	}
	return out
}
