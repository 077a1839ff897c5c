package area

import (
	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2pgsql-go/internal/style"
)

// AssemblerConfig is the immutable configuration shared by every call an
// Assembler makes, including the recursive calls closed-inner promotion
// issues against itself.
type AssemblerConfig struct {
	Reporter ProblemReporter // nil means diagnostics are discarded
	Debug    bool
	Filter   *style.KeyFilter // nil means the default multipolygon filter
}

func (c AssemblerConfig) reporter() ProblemReporter {
	if c.Reporter == nil {
		return NullReporter{}
	}
	return c.Reporter
}

func (c AssemblerConfig) filter() *style.KeyFilter {
	if c.Filter == nil {
		return style.DefaultMultipolygonKeyFilter()
	}
	return c.Filter
}

// Ring is one assembled ring pair ready for output: an outer boundary
// plus its nested inner (hole) boundaries, each as a closed vertex chain
// (first == last, implicit closing segment included).
type Ring struct {
	Outer  []NodeRef
	Inners [][]NodeRef
}

// Area is the assembled output record: id, tags and rings. It carries no
// header metadata (version, changeset, timestamp, uid, user) from the
// source Way/Relation.
type Area struct {
	ID    int64
	Tags  osm.Tags
	Rings []Ring // empty iff assembly failed structurally
}

// Assembler orchestrates the ring-assembly pipeline for both Way-mode and
// Relation-mode input. A single instance holds no state across calls
// beyond its config; it is not safe for concurrent calls sharing the same
// instance, but independent Assemblers over disjoint input may run in
// parallel freely.
type Assembler struct {
	config AssemblerConfig
}

// NewAssembler builds an Assembler with the given config.
func NewAssembler(config AssemblerConfig) *Assembler {
	return &Assembler{config: config}
}

// AssembleWay assembles a single closed Way into an Area. The area id is
// 2*way.ID, the even-id convention that distinguishes way-derived from
// relation-derived areas.
func (a *Assembler) AssembleWay(way *osm.Way) Area {
	reporter := a.config.reporter()
	reporter.SetObject(ObjectKindWay, int64(way.ID))

	segments := &SegmentList{}
	segments.ExtractFromWay(way, roleOuter, reporter)

	outers := a.buildRings(segments, reporter)

	area := Area{ID: int64(way.ID) * 2}
	if outers != nil {
		area.Tags = NewTagPropagator(a.config.filter()).ForWay(way)
		area.Rings = ringsFromOuters(outers)
	}
	return area
}

// AssembleRelation assembles a multipolygon relation from its resolved
// member ways into an Area (id = 2*relation.ID + 1), and then recursively
// assembles any role="inner" member that is itself closed and carries
// tags distinct from the area's own, appending those as their own Areas
// via emit. This recursion is bounded to depth 2: the promoted assembly
// runs in Way mode and cannot recurse further.
func (a *Assembler) AssembleRelation(relation *osm.Relation, members []MemberWay, emit func(Area)) Area {
	reporter := a.config.reporter()
	reporter.SetObject(ObjectKindRelation, int64(relation.ID))

	segments := &SegmentList{}
	segments.ExtractFromRelationMembers(members, reporter)

	outers := a.buildRings(segments, reporter)

	area := Area{ID: int64(relation.ID)*2 + 1}
	roleChecker := NewRoleChecker(reporter)
	if outers != nil {
		area.Tags = NewTagPropagator(a.config.filter()).ForRelation(relation, outers)
		area.Rings = ringsFromOuters(outers)
		roleChecker.Check(outers)
	}

	emit(area)

	if roleChecker.Mismatches == 0 {
		a.promoteClosedInnerWays(members, area.Tags, emit)
	}

	return area
}

// buildRings runs the shared ring-construction core for both Way and
// Relation mode: sort, dedupe, intersection check, incremental ring
// building, open-ring check, classification and nesting. Returns nil if
// the area is structurally invalid (intersections or open rings) — the
// caller then emits a shell area with no rings.
func (a *Assembler) buildRings(segments *SegmentList, reporter ProblemReporter) []*ProtoRing {
	segments.Sort()
	segments.EraseDuplicateSegments()

	if segments.FindIntersections(reporter) {
		return nil
	}

	builder := NewRingBuilder(reporter)
	for _, seg := range segments.All() {
		builder.Add(seg)
	}

	if builder.CheckForOpenRings() {
		return nil
	}

	rings := builder.Rings()
	if len(rings) == 0 {
		return nil
	}

	classifier := NewClassifier(segments, reporter)
	return classifier.Classify(rings)
}

// promoteClosedInnerWays promotes closed-inner members: a closed member
// way with role "inner" whose filtered tag set differs from the parent
// area's represents a distinct feature and gets its own assembled Area.
func (a *Assembler) promoteClosedInnerWays(members []MemberWay, areaTags osm.Tags, emit func(Area)) {
	filter := a.config.filter()
	areaFiltered := tagSet(filter, areaTags)

	for _, m := range members {
		if m.Role != roleInner {
			continue
		}
		way := m.Way
		if !wayIsClosed(way) || len(way.Tags) == 0 {
			continue
		}
		wayFiltered := tagSet(filter, way.Tags)
		if len(wayFiltered) == 0 {
			continue
		}
		if tagSetsEqual(wayFiltered, areaFiltered) {
			continue
		}
		emit(a.AssembleWay(way))
	}
}

func wayIsClosed(way *osm.Way) bool {
	return len(way.Nodes) >= 3 && way.Nodes[0].ID == way.Nodes[len(way.Nodes)-1].ID
}

func tagSet(filter *style.KeyFilter, tags osm.Tags) map[string]string {
	m := make(map[string]string)
	for _, t := range tags {
		if filter.Keep(t.Key) {
			m[t.Key] = t.Value
		}
	}
	return m
}

func tagSetsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func ringsFromOuters(outers []*ProtoRing) []Ring {
	out := make([]Ring, 0, len(outers))
	for _, o := range outers {
		r := Ring{Outer: ringVertices(o)}
		for _, inner := range o.InnerRings() {
			r.Inners = append(r.Inners, ringVertices(inner))
		}
		out = append(out, r)
	}
	return out
}

// ringVertices returns a ring's closed vertex chain, explicitly repeating
// the first node at the end.
func ringVertices(r *ProtoRing) []NodeRef {
	verts := make([]NodeRef, 0, len(r.Segments())+1)
	verts = append(verts, r.Front())
	for _, s := range r.Segments() {
		verts = append(verts, s.Second)
	}
	return verts
}
