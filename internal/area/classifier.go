package area

import "sort"

// Classifier decides outer vs inner for each ring via a leftward ray-cast
// parity test against the full segment list, normalizes winding once a
// ring's role is known, and assigns each inner ring to its smallest
// enclosing outer.
type Classifier struct {
	segments *SegmentList
	reporter ProblemReporter
}

// NewClassifier builds a Classifier testing rings against segments.
func NewClassifier(segments *SegmentList, reporter ProblemReporter) *Classifier {
	return &Classifier{segments: segments, reporter: reporter}
}

// Classify assigns RoleOuter/RoleInner to every ring and returns the
// outer rings (sorted ascending by area when there's more than one) with
// each one's inner rings already attached.
func (c *Classifier) Classify(rings []*ProtoRing) (outers []*ProtoRing) {
	if len(rings) == 1 {
		rings[0].SetOuter()
		if !rings[0].IsCW() {
			rings[0].Reverse()
		}
		return rings
	}

	var inners []*ProtoRing
	for _, ring := range rings {
		if c.isInner(ring) {
			ring.SetInner()
			if ring.IsCW() {
				ring.Reverse()
			}
			inners = append(inners, ring)
		} else {
			ring.SetOuter()
			if !ring.IsCW() {
				ring.Reverse()
			}
			outers = append(outers, ring)
		}
	}

	if len(outers) == 1 {
		for _, inner := range inners {
			outers[0].AddInnerRing(inner)
		}
		return outers
	}

	sort.Slice(outers, func(i, j int) bool {
		return outers[i].AbsArea() < outers[j].AbsArea()
	})

	for _, inner := range inners {
		owner := c.findOwner(inner, outers)
		if owner == nil {
			if c.reporter != nil {
				c.reporter.ReportOrphanInnerRing(inner.MinNode().Loc)
			}
			continue
		}
		owner.AddInnerRing(inner)
	}
	return outers
}

func (c *Classifier) findOwner(inner *ProtoRing, outers []*ProtoRing) *ProtoRing {
	for _, outer := range outers {
		if inner.IsIn(outer) {
			return outer
		}
	}
	return nil
}

// isInner runs a scanline parity test: cast a leftward ray from ring's
// min-node and count strict crossings against every segment in the global
// list (excluding ring's own), adding a parity correction for segments
// whose endpoint sits exactly on the ray's origin.
func (c *Classifier) isInner(ring *ProtoRing) bool {
	minNode := ring.MinNode()
	count := 0
	above := 0

	for _, seg := range c.segments.All() {
		if seg.First.Loc.X > minNode.Loc.X {
			break // list is sorted by First.Loc; prefix scan suffices
		}
		if ring.Contains(seg) {
			continue
		}
		if seg.toLeftOf(minNode.Loc) {
			count++
		}
		if seg.First.Loc == minNode.Loc && seg.Second.Loc.Y > minNode.Loc.Y {
			above++
		}
		if seg.Second.Loc == minNode.Loc && seg.First.Loc.Y > minNode.Loc.Y {
			above++
		}
	}

	count += above % 2
	return count%2 == 1
}
