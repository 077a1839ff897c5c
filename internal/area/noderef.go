package area

// NodeRef pairs an OSM node id with its location. Topological equality
// (used everywhere in ring assembly) is by Loc, not by ID: two NodeRefs
// that share a location but carry different ids are still "the same
// point" for the purposes of chaining segments, though the mismatch is
// itself worth reporting (see SameLocation).
type NodeRef struct {
	ID  int64
	Loc Location
}

// SameLocation reports whether a and b occupy the same point. If they do
// but disagree on id, it reports a duplicate_node diagnostic through r
// (a no-op if r is nil).
func SameLocation(r ProblemReporter, a, b NodeRef) bool {
	if a.Loc != b.Loc {
		return false
	}
	if a.ID != b.ID && r != nil {
		r.ReportDuplicateNode(a.ID, b.ID, a.Loc)
	}
	return true
}
