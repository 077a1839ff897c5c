package area

import "fmt"

// ObjectKind identifies the OSM object a ProblemReporter's subsequent
// diagnostics apply to.
type ObjectKind int

const (
	ObjectKindWay ObjectKind = iota
	ObjectKindRelation
)

func (k ObjectKind) String() string {
	if k == ObjectKindRelation {
		return "relation"
	}
	return "way"
}

// ProblemReporter is a fire-and-forget diagnostic sink. Implementations
// never alter control flow: every report call here is best-effort and the
// assembly pipeline proceeds regardless of what the reporter does with it.
type ProblemReporter interface {
	SetObject(kind ObjectKind, id int64)
	ReportDuplicateNode(id1, id2 int64, loc Location)
	ReportRingNotClosed(start, end Location)
	ReportSegmentIntersection(seg1a, seg1b, seg2a, seg2b Location, intersection Location)
	ReportRoleShouldBeOuter(wayID int64, a, b Location)
	ReportRoleShouldBeInner(wayID int64, a, b Location)
	ReportOrphanInnerRing(minNode Location)
}

// NullReporter discards every report. It is the default when
// AssemblerConfig.Reporter is nil.
type NullReporter struct{}

func (NullReporter) SetObject(ObjectKind, int64)                             {}
func (NullReporter) ReportDuplicateNode(int64, int64, Location)              {}
func (NullReporter) ReportRingNotClosed(Location, Location)                  {}
func (NullReporter) ReportSegmentIntersection(_, _, _, _, _ Location)        {}
func (NullReporter) ReportRoleShouldBeOuter(int64, Location, Location)       {}
func (NullReporter) ReportRoleShouldBeInner(int64, Location, Location)       {}
func (NullReporter) ReportOrphanInnerRing(Location)                          {}

// Problem is one recorded diagnostic, in the shape RecordingReporter keeps
// them: a kind tag plus a free-form message, useful for test assertions
// without needing one struct type per diagnostic kind.
type Problem struct {
	Kind    string
	Message string
}

// RecordingReporter accumulates every report it receives, in order. It is
// meant for tests: assert on .Problems after running an assembly.
type RecordingReporter struct {
	ObjectKind ObjectKind
	ObjectID   int64
	Problems   []Problem
}

func (r *RecordingReporter) SetObject(kind ObjectKind, id int64) {
	r.ObjectKind = kind
	r.ObjectID = id
}

func (r *RecordingReporter) ReportDuplicateNode(id1, id2 int64, loc Location) {
	r.Problems = append(r.Problems, Problem{"duplicate_node", fmt.Sprintf("id1=%d id2=%d loc=%v", id1, id2, loc)})
}

func (r *RecordingReporter) ReportRingNotClosed(start, end Location) {
	r.Problems = append(r.Problems, Problem{"ring_not_closed", fmt.Sprintf("start=%v end=%v", start, end)})
}

func (r *RecordingReporter) ReportSegmentIntersection(seg1a, seg1b, seg2a, seg2b, intersection Location) {
	r.Problems = append(r.Problems, Problem{"segment_intersection", fmt.Sprintf("seg1=(%v,%v) seg2=(%v,%v) at=%v", seg1a, seg1b, seg2a, seg2b, intersection)})
}

func (r *RecordingReporter) ReportRoleShouldBeOuter(wayID int64, a, b Location) {
	r.Problems = append(r.Problems, Problem{"role_should_be_outer", fmt.Sprintf("way=%d seg=(%v,%v)", wayID, a, b)})
}

func (r *RecordingReporter) ReportRoleShouldBeInner(wayID int64, a, b Location) {
	r.Problems = append(r.Problems, Problem{"role_should_be_inner", fmt.Sprintf("way=%d seg=(%v,%v)", wayID, a, b)})
}

func (r *RecordingReporter) ReportOrphanInnerRing(minNode Location) {
	r.Problems = append(r.Problems, Problem{"orphan_inner_ring", fmt.Sprintf("min_node=%v", minNode)})
}

// Count returns how many recorded problems have the given kind.
func (r *RecordingReporter) Count(kind string) int {
	n := 0
	for _, p := range r.Problems {
		if p.Kind == kind {
			n++
		}
	}
	return n
}
